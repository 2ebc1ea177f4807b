package util

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// PathPattern turns a template into an object key. Supported placeholders:
//   - {year}, {month}, {day} - upload date (UTC), zero padded
//   - {category}              - experience category, e.g. "balloon"
//   - {slug}                  - filename without extension, e.g. "b3"
//   - {ext}                   - extension with leading dot, e.g. ".jpg"
//   - {filename}              - full filename, e.g. "b3.jpg"
//
// Example: "safari-admin/{filename}" → "safari-admin/b3.jpg".
type PathPattern struct {
	pattern string
}

// KeyFields are the values substituted into a PathPattern.
type KeyFields struct {
	Filename string
	Category string
	Time     time.Time
}

func NewPathPattern(pattern string) *PathPattern {
	return &PathPattern{pattern: pattern}
}

func (p *PathPattern) String() string {
	return p.pattern
}

// Generate produces a slash-separated key. Date placeholders are left as-is
// when Time is zero.
func (p *PathPattern) Generate(f KeyFields) (string, error) {
	if f.Filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	ext := path.Ext(f.Filename)
	slug := strings.TrimSuffix(f.Filename, ext)
	if slug == "" {
		return "", fmt.Errorf("filename %q has no name", f.Filename)
	}

	result := p.pattern

	if !f.Time.IsZero() {
		ts := f.Time.UTC()
		result = strings.ReplaceAll(result, "{year}", fmt.Sprintf("%04d", ts.Year()))
		result = strings.ReplaceAll(result, "{month}", fmt.Sprintf("%02d", ts.Month()))
		result = strings.ReplaceAll(result, "{day}", fmt.Sprintf("%02d", ts.Day()))
	}

	result = strings.ReplaceAll(result, "{category}", f.Category)
	result = strings.ReplaceAll(result, "{filename}", f.Filename)
	result = strings.ReplaceAll(result, "{slug}", slug)
	result = strings.ReplaceAll(result, "{ext}", ext)

	result = strings.TrimPrefix(path.Clean("/"+result), "/")
	if result == "" {
		return "", fmt.Errorf("pattern %q produced an empty key", p.pattern)
	}

	return result, nil
}

// DefaultKeyPattern stores every slot image flat under one folder.
func DefaultKeyPattern() *PathPattern {
	return NewPathPattern("safari-admin/{filename}")
}
