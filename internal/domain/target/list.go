package target

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// entryMatcher decides whether a child of <mp>/<plugin>/ is a placed
// component and returns its name.
type entryMatcher func(fs ports.FileSystem, parent string, e ports.DirEntry) (string, bool)

// listHierarchy walks dir/<marketplace>/<plugin>/<entry> and returns
// "marketplace/plugin/name" for every accepted entry. Files found at the
// intermediate levels are ignored. A missing dir yields nothing.
func listHierarchy(fs ports.FileSystem, dir string, match entryMatcher) ([]string, error) {
	if !fs.IsDir(dir) {
		return nil, nil
	}

	marketplaces, err := fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, mp := range marketplaces {
		mpName, ok := visibleName(mp)
		if !ok || !mp.IsDir {
			continue
		}
		mpDir := filepath.Join(dir, mp.Name)
		plugins, err := fs.ReadDir(mpDir)
		if err != nil {
			return nil, err
		}
		for _, pl := range plugins {
			plName, ok := visibleName(pl)
			if !ok || !pl.IsDir {
				continue
			}
			plDir := filepath.Join(mpDir, pl.Name)
			entries, err := fs.ReadDir(plDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if _, ok := visibleName(e); !ok {
					continue
				}
				if name, ok := match(fs, plDir, e); ok {
					out = append(out, mpName+"/"+plName+"/"+name)
				}
			}
		}
	}
	return out, nil
}

// skillEntry accepts directories holding a SKILL.md.
func skillEntry(fs ports.FileSystem, parent string, e ports.DirEntry) (string, bool) {
	if !e.IsDir || !fs.Exists(filepath.Join(parent, e.Name, component.SkillManifest)) {
		return "", false
	}
	return e.Name, true
}

// suffixEntry accepts files ending in suffix and strips it.
func suffixEntry(suffix string) entryMatcher {
	return func(_ ports.FileSystem, _ string, e ports.DirEntry) (string, bool) {
		if e.IsDir || !strings.HasSuffix(e.Name, suffix) {
			return "", false
		}
		name := strings.TrimSuffix(e.Name, suffix)
		if name == "" {
			return "", false
		}
		return name, true
	}
}

// listFile returns the base name of path when it exists as a file.
func listFile(fs ports.FileSystem, path string) ([]string, error) {
	if !fs.Exists(path) || fs.IsDir(path) {
		return nil, nil
	}
	return []string{filepath.Base(path)}, nil
}

// visibleName skips hidden entries, including in-flight sync temp dirs,
// and names that are not valid UTF-8. Names are returned as stored so that
// they resolve back to the same path.
func visibleName(e ports.DirEntry) (string, bool) {
	if strings.HasPrefix(e.Name, ".") || !utf8.ValidString(e.Name) {
		return "", false
	}
	return e.Name, true
}
