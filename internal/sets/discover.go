// Package sets discovers, validates, and loads question-set files.
package sets

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/drill/internal/model"
)

const setExt = ".json"

// Discover walks root and returns every set file as a slash-separated path relative
// to root, sorted. Directories and symlinks are skipped.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), setExt) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sets directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Match filters discovered files with pattern and builds their set descriptors.
// An empty pattern matches everything.
func Match(root string, files []string, pattern string) ([]model.Set, error) {
	if pattern == "" {
		pattern = "."
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid set pattern: %w", err)
	}
	var matched []model.Set
	for _, rel := range files {
		if !re.MatchString(rel) {
			continue
		}
		name := strings.TrimSuffix(rel, path.Ext(rel))
		matched = append(matched, model.Set{
			Name:  name,
			Path:  filepath.Join(root, filepath.FromSlash(rel)),
			Title: Title(name),
		})
	}
	return matched, nil
}

// Select discovers the sets below root that match pattern.
func Select(root, pattern string) ([]model.Set, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}
	matched, err := Match(root, files, pattern)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, model.ErrNoSets
	}
	return matched, nil
}

// Title prettifies a set name: underscores become spaces, every word and path
// section is capitalized, and "/" stays as the section separator.
func Title(name string) string {
	sections := strings.Split(name, "/")
	for i, section := range sections {
		words := strings.Split(section, "_")
		for j, word := range words {
			words[j] = capitalize(word)
		}
		sections[i] = strings.Join(words, " ")
	}
	return strings.Join(sections, "/")
}

// Titles returns the display titles of sets in order.
func Titles(sets []model.Set) []string {
	titles := make([]string, len(sets))
	for i, s := range sets {
		titles[i] = s.Title
	}
	return titles
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
