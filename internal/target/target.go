package target

import "fmt"

// Kind identifies which sync target a descriptor refers to.
type Kind int

const (
	// KindRepo targets a git repository identified by its remote origin.
	KindRepo Kind = iota
	// KindLocalDir targets the current directory by name, used when no git
	// remote can be determined.
	KindLocalDir
	// KindFlyApp targets a Fly.io application.
	KindFlyApp
)

// Descriptor identifies the secure note a command operates on. It is a closed
// union over the three target kinds; commands construct one and hand it to
// the sync engine, which never inspects the environment itself.
type Descriptor struct {
	Kind Kind

	// Owner is the repository owner or group path. Only set for KindRepo.
	Owner string

	// Name is the repository name, directory name, or fly app name.
	Name string
}

// Repo returns a descriptor for a git repository.
func Repo(owner, name string) Descriptor {
	return Descriptor{Kind: KindRepo, Owner: owner, Name: name}
}

// LocalDir returns a descriptor for a directory without a usable git remote.
func LocalDir(name string) Descriptor {
	return Descriptor{Kind: KindLocalDir, Name: name}
}

// FlyApp returns a descriptor for a Fly.io application.
func FlyApp(name string) Descriptor {
	return Descriptor{Kind: KindFlyApp, Name: name}
}

// Pattern renders the naming-convention tag that a matching secure note's
// title must contain.
func (d Descriptor) Pattern() string {
	switch d.Kind {
	case KindRepo:
		return fmt.Sprintf("repo:%s/%s", d.Owner, d.Name)
	case KindLocalDir:
		return fmt.Sprintf("local:%s", d.Name)
	case KindFlyApp:
		return fmt.Sprintf("fly:%s", d.Name)
	}
	panic(fmt.Sprintf("unknown target kind %d", d.Kind))
}

func (d Descriptor) String() string {
	return d.Pattern()
}
