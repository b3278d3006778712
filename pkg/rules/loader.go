package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/onomastics/bmpm/pkg/language"
)

// ErrMissingRules reports a rule file without a "rules" field.
var ErrMissingRules = errors.New(`rule file has no "rules" field`)

// ruleFile is the on-disk shape of a rewrite-rule table. Rules is a
// pointer so that an absent field can be told apart from an empty list.
type ruleFile struct {
	Name  string  `json:"name"`
	Rules *[]Spec `json:"rules"`
}

// detectFile is the on-disk shape of a language-detection table.
type detectFile struct {
	Rules *[]detectSpec `json:"rules"`
}

type detectSpec struct {
	Pattern   string `json:"pattern"`
	Languages uint64 `json:"languages"`
	Accept    bool   `json:"accept"`
}

// loadTable reads and compiles one rewrite-rule table from fsys.
func loadTable(fsys fs.FS, path string) (*Table, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file ruleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Rules == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingRules)
	}
	name := file.Name
	if name == "" {
		name = path
	}
	t, err := CompileTable(name, *file.Rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// loadDetector reads and compiles a language-detection table.
func loadDetector(fsys fs.FS, t language.NameType, path string) (*language.Detector, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file detectFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Rules == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingRules)
	}
	rules := make([]language.DetectRule, 0, len(*file.Rules))
	for i, s := range *file.Rules {
		re, err := compileDelimited(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s, rule %d: %w", path, i, err)
		}
		rules = append(rules, language.DetectRule{
			Pattern:   re,
			Languages: language.Mask(s.Languages),
			Accept:    s.Accept,
		})
	}
	return language.NewDetector(t, rules), nil
}

// compileDelimited compiles a "/regex/flags" pattern. The only flag
// with an effect is "i"; "u" is accepted and ignored because the engine
// is always Unicode-aware.
func compileDelimited(p string) (*regexp.Regexp, error) {
	if len(p) < 2 || p[0] != '/' {
		return nil, fmt.Errorf("pattern %q is not /…/-delimited", p)
	}
	closing := strings.LastIndexByte(p, '/')
	if closing == 0 {
		return nil, fmt.Errorf("pattern %q is not /…/-delimited", p)
	}
	body, flags := p[1:closing], p[closing+1:]
	for _, f := range flags {
		switch f {
		case 'u':
		case 'i':
			body = "(?i)" + body
		default:
			return nil, fmt.Errorf("pattern %q: unsupported flag %q", p, f)
		}
	}
	re, err := regexp.Compile(body)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", p, err)
	}
	return re, nil
}
