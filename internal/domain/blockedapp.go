package domain

// BlockedApp is keyed by PackageName.
type BlockedApp struct {
	PackageName string
	DisplayName string
	Enabled     bool
}

// PackageSet is an immutable lookup set of package identifiers.
type PackageSet map[string]struct{}

// NewPackageSet builds a set from the enabled apps in apps.
func NewPackageSet(apps []BlockedApp) PackageSet {
	set := make(PackageSet, len(apps))
	for _, a := range apps {
		if a.Enabled {
			set[a.PackageName] = struct{}{}
		}
	}
	return set
}

func (s PackageSet) Contains(pkg string) bool {
	_, ok := s[pkg]
	return ok
}
