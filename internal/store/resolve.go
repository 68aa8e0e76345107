package store

import "fmt"

// Resolve maps a user-supplied name to its canonical installed record,
// following at most one alias indirection.
//
// An installed name resolves to itself. An alias resolves to its target and
// fails with ErrDanglingAlias if the target record no longer exists or is no
// longer installed (the latter cannot be produced by alias creation, which
// validates the target kind, but a manually edited registry is still reported
// rather than trusted). An unknown name fails with ErrNotFound.
func (s *Store) Resolve(name string) (*Record, error) {
	rec, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if rec.Kind != KindAlias {
		return rec, nil
	}

	target, err := s.Get(rec.AliasTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingAlias, name, rec.AliasTarget)
	}
	if target.Kind != KindInstalled {
		return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingAlias, name, rec.AliasTarget)
	}
	return target, nil
}

// PutAlias validates and stores an alias binding from name to target.
//
// The target must resolve directly to an installed record; aliasing an alias
// is rejected so chains can never form. A name already held by an installed
// record is rejected with ErrNameConflict; redefining an existing alias
// retargets it.
func (s *Store) PutAlias(name, target string) error {
	if name == target {
		return fmt.Errorf("%w: alias and target must differ: %s", ErrNameConflict, name)
	}

	targetRec, err := s.Get(target)
	if err != nil {
		return err
	}
	if targetRec.Kind != KindInstalled {
		return fmt.Errorf("alias target %s is an alias itself: aliases must point at installed applications", target)
	}

	existing, err := s.Get(name)
	if err == nil && existing.Kind != KindAlias {
		return fmt.Errorf("%w: %s is an installed application", ErrNameConflict, name)
	}

	now := nowFunc()
	rec := &Record{
		Name:        name,
		Kind:        KindAlias,
		AliasTarget: target,
		InstalledAt: now,
		UpdatedAt:   now,
	}
	if existing != nil {
		// Retarget keeps the original creation time and any attributed
		// side effects.
		rec.InstalledAt = existing.InstalledAt
		rec.PathEntries = existing.PathEntries
		rec.DesktopEntries = existing.DesktopEntries
	}
	return s.Put(rec)
}
