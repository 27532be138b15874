package component

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// Well-known names inside a plugin directory.
const (
	SkillManifest          = "SKILL.md"
	AgentSuffix            = ".agent.md"
	PromptSuffix           = ".prompt.md"
	MarkdownSuffix         = ".md"
	DefaultSkillsDir       = "skills"
	DefaultAgentsDir       = "agents"
	DefaultCommandsDir     = "commands"
	DefaultHooksDir        = "hooks"
	DefaultInstructionFile = "instructions.md"
	DefaultInstructionsDir = "instructions"
)

// Layout holds the absolute locations of each component kind inside a
// plugin directory.
type Layout struct {
	Skills           string
	Agents           string
	Commands         string
	Hooks            string
	InstructionsFile string
	InstructionsDir  string
}

// DefaultLayout returns the conventional layout rooted at pluginDir.
func DefaultLayout(pluginDir string) Layout {
	return Layout{
		Skills:           filepath.Join(pluginDir, DefaultSkillsDir),
		Agents:           filepath.Join(pluginDir, DefaultAgentsDir),
		Commands:         filepath.Join(pluginDir, DefaultCommandsDir),
		Hooks:            filepath.Join(pluginDir, DefaultHooksDir),
		InstructionsFile: filepath.Join(pluginDir, DefaultInstructionFile),
		InstructionsDir:  filepath.Join(pluginDir, DefaultInstructionsDir),
	}
}

// Scanner enumerates the components of a plugin directory.
type Scanner struct {
	fs ports.FileSystem
}

// NewScanner creates a Scanner reading through fs.
func NewScanner(fs ports.FileSystem) *Scanner {
	return &Scanner{fs: fs}
}

// Scan returns every component found in layout, sorted by kind then name.
// Missing directories contribute nothing.
func (s *Scanner) Scan(layout Layout) ([]Component, error) {
	var all []Component

	steps := []func() ([]Component, error){
		func() ([]Component, error) { return s.Skills(layout.Skills) },
		func() ([]Component, error) {
			return s.markdownFiles(KindAgent, layout.Agents, AgentSuffix)
		},
		func() ([]Component, error) {
			return s.markdownFiles(KindCommand, layout.Commands, PromptSuffix)
		},
		func() ([]Component, error) {
			return s.Instructions(layout.InstructionsFile, layout.InstructionsDir)
		},
		func() ([]Component, error) { return s.Hooks(layout.Hooks) },
	}
	for _, step := range steps {
		found, err := step()
		if err != nil {
			return nil, err
		}
		all = append(all, found...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Kind != all[j].Kind {
			return all[i].Kind < all[j].Kind
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// Skills lists subdirectories of dir that contain a SKILL.md.
func (s *Scanner) Skills(dir string) ([]Component, error) {
	entries, err := s.entries(dir)
	if err != nil || entries == nil {
		return nil, err
	}

	var out []Component
	for _, e := range entries {
		name, ok := cleanName(e.Name)
		if !ok || !e.IsDir {
			continue
		}
		path := filepath.Join(dir, e.Name)
		if !s.fs.Exists(filepath.Join(path, SkillManifest)) {
			continue
		}
		out = append(out, Component{Kind: KindSkill, Name: name, Path: path})
	}
	return out, nil
}

// Hooks lists files of dir; the name drops only the last extension.
func (s *Scanner) Hooks(dir string) ([]Component, error) {
	entries, err := s.entries(dir)
	if err != nil || entries == nil {
		return nil, err
	}

	var out []Component
	for _, e := range entries {
		name, ok := cleanName(e.Name)
		if !ok || e.IsDir {
			continue
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))
		out = append(out, Component{Kind: KindHook, Name: name, Path: filepath.Join(dir, e.Name)})
	}
	return out, nil
}

// Instructions returns the single instructions file when it exists, or
// every markdown file under dir otherwise.
func (s *Scanner) Instructions(file, dir string) ([]Component, error) {
	if file != "" && s.fs.Exists(file) && !s.fs.IsDir(file) {
		name, ok := cleanName(filepath.Base(file))
		if !ok {
			return nil, nil
		}
		return []Component{{
			Kind: KindInstruction,
			Name: strings.TrimSuffix(name, MarkdownSuffix),
			Path: file,
		}}, nil
	}
	if file != "" && s.fs.IsDir(file) {
		dir = file
	}
	return s.markdownFiles(KindInstruction, dir, "")
}

// markdownFiles lists files ending in suffix or .md. A path that is itself
// a file is treated as the only component.
func (s *Scanner) markdownFiles(kind Kind, path, suffix string) ([]Component, error) {
	if path == "" || !s.fs.Exists(path) {
		return nil, nil
	}
	if !s.fs.IsDir(path) {
		c, ok := fileComponent(kind, path, suffix)
		if !ok {
			return nil, nil
		}
		return []Component{c}, nil
	}

	entries, err := s.entries(path)
	if err != nil {
		return nil, err
	}

	var out []Component
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if c, ok := fileComponent(kind, filepath.Join(path, e.Name), suffix); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Scanner) entries(dir string) ([]ports.DirEntry, error) {
	if dir == "" || !s.fs.IsDir(dir) {
		return nil, nil
	}
	return s.fs.ReadDir(dir)
}

func fileComponent(kind Kind, path, suffix string) (Component, bool) {
	name, ok := cleanName(filepath.Base(path))
	if !ok {
		return Component{}, false
	}
	switch {
	case suffix != "" && strings.HasSuffix(name, suffix):
		name = strings.TrimSuffix(name, suffix)
	case strings.HasSuffix(name, MarkdownSuffix):
		name = strings.TrimSuffix(name, MarkdownSuffix)
	default:
		return Component{}, false
	}
	if name == "" {
		return Component{}, false
	}
	return Component{Kind: kind, Name: name, Path: path}, true
}

// cleanName rejects non-UTF-8 names and returns the NFC form.
func cleanName(name string) (string, bool) {
	if !utf8.ValidString(name) {
		return "", false
	}
	return norm.NFC.String(name), true
}
