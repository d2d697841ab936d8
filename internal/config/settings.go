package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/assoc"
	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
	"github.com/kk-code-lab/rclaunch/internal/lister"
	"github.com/kk-code-lab/rclaunch/internal/pattern"
	"github.com/kk-code-lab/rclaunch/internal/rename"
)

// MaxFavorites is the highest favorite number.
const MaxFavorites = 10

// Warning describes a configuration entry that was dropped.
type Warning struct {
	Where string
	Err   error
}

func (w Warning) String() string {
	return w.Where + ": " + w.Err.Error()
}

// Settings is the compiled configuration. It is not modified after Compile.
type Settings struct {
	Global    lister.Rules
	Favorites []lister.Lister

	LogLevel string
	LogFile  string
	Socket   string
	Watch    bool
}

// Favorite returns the lister bound to n, or nil.
func (s *Settings) Favorite(n int) lister.Lister {
	if s == nil {
		return nil
	}
	for _, fav := range s.Favorites {
		if fav.FavoriteID() == n {
			return fav
		}
	}
	return nil
}

// Load reads and compiles path in one step.
func Load(path string) (*Settings, []Warning, error) {
	file, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	settings, warnings := Compile(file)
	return settings, warnings, nil
}

// Compile turns the file into rule tables and favorites. Entries that cannot
// be compiled are dropped one by one and reported as warnings.
func Compile(f *File) (*Settings, []Warning) {
	c := compiler{}

	globalAssoc := c.associations("file_assoc", f.FileAssoc, false)
	globalTransforms := c.transforms("name_transform", f.NameTransform)

	settings := &Settings{
		Global: lister.Rules{
			Associations: assoc.Set{Global: globalAssoc},
			Transforms:   rename.Set{Global: globalTransforms},
		},
		LogLevel: f.Log.Level,
		LogFile:  fsutil.ExpandHome(f.Log.File),
		Socket:   fsutil.ExpandHome(f.Remote.Socket),
		Watch:    f.WatchEnabled(),
	}

	seen := make(map[int]bool)
	for i, fav := range f.Favorites {
		where := fmt.Sprintf("favorites[%d]", i)
		l, err := c.favorite(where, fav, settings.Global)
		if err != nil {
			c.warn(where, err)
			continue
		}
		if seen[fav.Num] {
			c.warn(where, fmt.Errorf("duplicate favorite number %d", fav.Num))
			continue
		}
		seen[fav.Num] = true
		settings.Favorites = append(settings.Favorites, l)
	}
	sort.SliceStable(settings.Favorites, func(i, j int) bool {
		return settings.Favorites[i].FavoriteID() < settings.Favorites[j].FavoriteID()
	})

	return settings, c.warnings
}

type compiler struct {
	warnings []Warning
}

func (c *compiler) warn(where string, err error) {
	c.warnings = append(c.warnings, Warning{Where: where, Err: err})
}

func (c *compiler) favorite(where string, fav FavoriteEntry, global lister.Rules) (lister.Lister, error) {
	if fav.Num < 1 || fav.Num > MaxFavorites {
		return nil, fmt.Errorf("favorite number %d outside 1-%d", fav.Num, MaxFavorites)
	}
	kind, err := lister.ParseKind(fav.Module)
	if err != nil {
		return nil, err
	}
	root := fsutil.ExpandHome(strings.TrimSpace(fav.Path))
	if root == "" && kind != lister.KindOpenHandles {
		return nil, errors.New("favorite without path")
	}

	rules := lister.Rules{
		Associations: assoc.Set{
			Local:  c.associations(where+".file_assoc", fav.FileAssoc, true),
			Global: global.Associations.Global,
		},
		Transforms: rename.Set{
			Local:  c.transforms(where+".name_transform", fav.NameTransform),
			Global: global.Transforms.Global,
		},
	}

	title := fav.Name
	if title == "" {
		title = fmt.Sprintf("Favorite %d", fav.Num)
	}

	return lister.New(kind, lister.Config{
		Title:    title,
		Favorite: fav.Num,
		Root:     root,
		Rules:    rules,
		ProcRoot: fav.ProcRoot,
	}), nil
}

func (c *compiler) associations(where string, entries []AssocEntry, allowSentinel bool) []*assoc.Rule {
	var rules []*assoc.Rule
	for i, e := range entries {
		at := fmt.Sprintf("%s[%d]", where, i)
		if e.Global {
			if !allowSentinel {
				c.warn(at, errors.New("global marker is only valid inside a favorite"))
				continue
			}
			rules = append(rules, assoc.Sentinel())
			continue
		}
		rule, err := compileAssoc(e)
		if err != nil {
			c.warn(at, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func compileAssoc(e AssocEntry) (*assoc.Rule, error) {
	var (
		p   *pattern.Pattern
		err error
		set int
	)
	if e.Match != "" {
		set++
		p, err = pattern.Compile(e.Match)
	}
	if e.Ext != "" {
		set++
		p, err = pattern.CompileExtension(strings.TrimPrefix(e.Ext, "."))
	}
	if e.Glob != "" {
		set++
		p, err = pattern.CompileGlob(e.Glob)
	}
	switch {
	case set == 0:
		return nil, errors.New("association without match, ext or glob")
	case set > 1:
		return nil, errors.New("association with more than one of match, ext, glob")
	case err != nil:
		return nil, err
	}

	argv, err := assoc.SplitCommand(e.Command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errors.New("association without command")
	}
	return assoc.NewRule(p, argv, assoc.ParseKillable(e.Killable))
}

func (c *compiler) transforms(where string, entries []TransformEntry) []rename.Rule {
	var rules []rename.Rule
	for i, e := range entries {
		at := fmt.Sprintf("%s[%d]", where, i)
		p, err := pattern.Compile(e.Match)
		if err != nil {
			c.warn(at, err)
			continue
		}
		rules = append(rules, rename.Rule{Pattern: p, Template: e.Replace, Global: e.Global})
	}
	return rules
}
