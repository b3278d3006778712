package rules

import (
	"embed"
	"errors"
	"io/fs"
	"sync"

	"github.com/onomastics/bmpm/pkg/language"
)

//go:embed data
var embeddedData embed.FS

// Accuracy selects between the strict and the permissive final-rule
// sets. Exact keeps distinctions that Approx deliberately folds away,
// so Exact produces fewer alternatives per name.
type Accuracy int

const (
	Approx Accuracy = iota
	Exact
)

// Prefix returns the rule-file prefix for the accuracy.
func (a Accuracy) Prefix() string {
	if a == Exact {
		return "exact"
	}
	return "approx"
}

// Kind tags the role a rule table plays in the pipeline.
type Kind int

const (
	// Main is the per-language rewrite table applied to the raw name.
	Main Kind = iota
	// FinalCommon is the name-type-wide final table applied first.
	FinalCommon
	// FinalLanguage is the language-specific final table applied last.
	FinalLanguage
)

type tableKey struct {
	nameType language.NameType
	kind     Kind
	accuracy Accuracy
	lang     language.Language
}

// Store loads rule tables and language detectors from a rule-data tree
// and memoizes them. NewStore serves the embedded default set;
// NewStoreFS accepts any fs.FS with the same layout:
//
//	<NameType>/rules_<lang>.json
//	<NameType>/approx_common.json, <NameType>/exact_common.json
//	<NameType>/approx_<lang>.json, <NameType>/exact_<lang>.json
//	<NameType>/language_rules.json
//
// All loaded tables are immutable; the mutex guards only the cache
// maps, never a rewrite. ClearCache may race with concurrent encodes:
// dropped entries are simply re-loaded.
type Store struct {
	fsys fs.FS

	mu        sync.RWMutex
	tables    map[tableKey]*Table
	detectors map[language.NameType]*language.Detector
}

// NewStore returns a Store over the embedded default rule data.
func NewStore() *Store {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		// The embedded tree always contains "data".
		panic(err)
	}
	return NewStoreFS(sub)
}

// NewStoreFS returns a Store over an external rule-data tree.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{
		fsys:      fsys,
		tables:    make(map[tableKey]*Table),
		detectors: make(map[language.NameType]*language.Detector),
	}
}

// ClearCache drops every memoized table and detector. It is idempotent
// and safe to call concurrently with encodes.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.tables = make(map[tableKey]*Table)
	s.detectors = make(map[language.NameType]*language.Detector)
	s.mu.Unlock()
}

// Main returns the main rewrite table for (name type, language). When
// no file exists for a concrete language the "any" table is used, so a
// data set only needs per-language files where the language actually
// diverges.
func (s *Store) Main(t language.NameType, lang language.Language) (*Table, error) {
	key := tableKey{nameType: t, kind: Main, lang: lang}
	if tbl, ok := s.cached(key); ok {
		return tbl, nil
	}
	tbl, err := loadTable(s.fsys, t.String()+"/rules_"+lang.String()+".json")
	if errors.Is(err, fs.ErrNotExist) && lang != language.Any {
		tbl, err = loadTable(s.fsys, t.String()+"/rules_any.json")
	}
	if err != nil {
		return nil, err
	}
	s.put(key, tbl)
	return tbl, nil
}

// FinalCommon returns the name-type-wide final table for the accuracy.
func (s *Store) FinalCommon(t language.NameType, a Accuracy) (*Table, error) {
	key := tableKey{nameType: t, kind: FinalCommon, accuracy: a}
	if tbl, ok := s.cached(key); ok {
		return tbl, nil
	}
	tbl, err := loadTable(s.fsys, t.String()+"/"+a.Prefix()+"_common.json")
	if err != nil {
		return nil, err
	}
	s.put(key, tbl)
	return tbl, nil
}

// FinalLanguage returns the language-specific final table. A missing
// file is an empty pass, not an error: most languages need no final
// adjustments beyond the common table.
func (s *Store) FinalLanguage(t language.NameType, a Accuracy, lang language.Language) (*Table, error) {
	key := tableKey{nameType: t, kind: FinalLanguage, accuracy: a, lang: lang}
	if tbl, ok := s.cached(key); ok {
		return tbl, nil
	}
	tbl, err := loadTable(s.fsys, t.String()+"/"+a.Prefix()+"_"+lang.String()+".json")
	if errors.Is(err, fs.ErrNotExist) {
		tbl, err = &Table{Name: a.Prefix() + " " + lang.String()}, nil
	}
	if err != nil {
		return nil, err
	}
	s.put(key, tbl)
	return tbl, nil
}

// Detector returns the language detector for a name type.
func (s *Store) Detector(t language.NameType) (*language.Detector, error) {
	s.mu.RLock()
	d, ok := s.detectors[t]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}
	d, err := loadDetector(s.fsys, t, t.String()+"/language_rules.json")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if prev, ok := s.detectors[t]; ok {
		d = prev
	} else {
		s.detectors[t] = d
	}
	s.mu.Unlock()
	return d, nil
}

func (s *Store) cached(key tableKey) (*Table, bool) {
	s.mu.RLock()
	tbl, ok := s.tables[key]
	s.mu.RUnlock()
	return tbl, ok
}

func (s *Store) put(key tableKey, tbl *Table) {
	s.mu.Lock()
	if _, ok := s.tables[key]; !ok {
		s.tables[key] = tbl
	}
	s.mu.Unlock()
}
