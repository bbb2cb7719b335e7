// Package filter compiles the configured ignore rules into the file filter
// the scanner consults during classification.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scylladb/go-set/strset"
	"github.com/sirupsen/logrus"

	"github.com/dupesweep/dupesweep/pkg/config"
	"github.com/dupesweep/dupesweep/pkg/logger"
	"github.com/dupesweep/dupesweep/pkg/paths"
)

// File is the environment ignore expressions are evaluated against.
type File struct {
	Path string
	Dir  string
	Name string
	Ext  string
	Size int64
}

type Filter struct {
	ignorePaths []string
	extensions  *strset.Set
	patterns    []*regexp2.Regexp
	programs    []*vm.Program

	log *logrus.Entry
}

// New compiles a filter from configuration. Invalid patterns or expressions
// fail construction rather than silently matching nothing.
func New(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{
		ignorePaths: cfg.IgnorePaths,
		extensions:  strset.New(),
		log:         logger.GetLogger("filter"),
	}

	for _, ext := range cfg.IgnoreExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions.Add(ext)
	}

	for _, pattern := range cfg.IgnorePatterns {
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	for _, text := range cfg.IgnoreExpressions {
		program, err := expr.Compile(text, expr.Env(File{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile ignore expression %q: %w", text, err)
		}
		f.programs = append(f.programs, program)
	}

	return f, nil
}

// Ignore reports whether the file should be excluded from deduplication.
func (f *Filter) Ignore(path string, size int64) bool {
	if paths.IsIgnored(path, f.ignorePaths) {
		return true
	}

	if f.extensions.Has(strings.ToLower(filepath.Ext(path))) {
		return true
	}

	for _, re := range f.patterns {
		match, err := re.MatchString(path)
		if err != nil {
			f.log.WithError(err).Warnf("Failed matching ignore pattern against %q", path)
			continue
		}
		if match {
			return true
		}
	}

	if len(f.programs) == 0 {
		return false
	}

	env := File{
		Path: path,
		Dir:  filepath.Dir(path),
		Name: filepath.Base(path),
		Ext:  strings.ToLower(filepath.Ext(path)),
		Size: size,
	}

	for _, program := range f.programs {
		result, err := expr.Run(program, env)
		if err != nil {
			f.log.WithError(err).Warnf("Failed evaluating ignore expression against %q", path)
			continue
		}

		if match, ok := result.(bool); ok && match {
			return true
		}
	}

	return false
}
