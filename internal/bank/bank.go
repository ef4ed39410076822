// Package bank loads exercise libraries (banks, exercise definitions, catalog) from TOML.
package bank

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
	"github.com/verte-zerg/mindgym/internal/exercise"
)

const (
	exercisesFile = "exercises.toml"
	catalogFile   = "catalog.toml"
	banksDir      = "banks"
)

//go:embed data
var embedded embed.FS

// Library is everything needed to build the runtime snapshot.
type Library struct {
	Banks     map[string]content.Bank
	Exercises map[string]exercise.Definition
	Catalog   content.MapCatalog
}

type exercisesDoc struct {
	Exercises map[string]exercise.Definition `toml:"exercises"`
}

// Default loads the library shipped with the binary.
func Default() (Library, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Library{}, fmt.Errorf("failed to open embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads a library from a directory on disk.
func LoadDir(dir string) (Library, error) {
	if _, err := os.Stat(dir); err != nil {
		return Library{}, fmt.Errorf("failed to stat content dir: %w", err)
	}
	return Load(os.DirFS(dir))
}

// Load reads exercises.toml, an optional catalog.toml, and every banks/*.toml in fsys.
// Unknown keys are rejected so authoring typos surface at load time.
func Load(fsys fs.FS) (Library, error) {
	var doc exercisesDoc
	if err := decode(fsys, exercisesFile, &doc); err != nil {
		return Library{}, err
	}
	lib := Library{
		Banks:     map[string]content.Bank{},
		Exercises: doc.Exercises,
	}
	if lib.Exercises == nil {
		lib.Exercises = map[string]exercise.Definition{}
	}

	if _, err := fs.Stat(fsys, catalogFile); err == nil {
		if err := decode(fsys, catalogFile, &lib.Catalog); err != nil {
			return Library{}, err
		}
	}

	names, err := fs.Glob(fsys, path.Join(banksDir, "*.toml"))
	if err != nil {
		return Library{}, apperrors.Wrap(apperrors.CodeInvalidContent, "list banks", err)
	}
	sort.Strings(names)
	for _, name := range names {
		var b content.Bank
		if err := decode(fsys, name, &b); err != nil {
			return Library{}, err
		}
		if b.ID == "" {
			b.ID = strings.TrimSuffix(path.Base(name), ".toml")
		}
		if !b.Template.Valid() {
			return Library{}, apperrors.WithMetadata(apperrors.CodeInvalidContent, "bank has no valid template",
				map[string]string{"bank": b.ID, "file": name})
		}
		if _, dup := lib.Banks[b.ID]; dup {
			return Library{}, apperrors.WithMetadata(apperrors.CodeInvalidContent, "bank id declared twice",
				map[string]string{"bank": b.ID, "file": name})
		}
		lib.Banks[b.ID] = b
	}
	return lib, nil
}

// Build resolves the library into a validated runtime snapshot.
func (l Library) Build(opts ...exercise.Option) (exercise.Snapshot, error) {
	opts = append([]exercise.Option{exercise.WithCatalog(l.Catalog)}, opts...)
	return exercise.NewBuilder(l.Banks, opts...).Build(l.Exercises)
}

func decode(fsys fs.FS, name string, v any) error {
	meta, err := toml.DecodeFS(fsys, name, v)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidContent, "decode "+name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return apperrors.WithMetadata(apperrors.CodeInvalidContent, "unknown keys in "+name,
			map[string]string{"file": name, "keys": strings.Join(keys, ",")})
	}
	return nil
}
