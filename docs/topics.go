// Package docs holds the user documentation, one markdown file per topic.
//
// readme.md introduces trk and lists the other topics. It is not a topic
// itself: GetAllTopics leaves it out.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// GetTopic returns the markdown of a topic. "*" is every topic.
func GetTopic(name string) (string, error) {
	if name == "*" {
		return GetTopics(name)
	}
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q: %w", name, err)
	}
	return string(content), nil
}

// GetTopics returns the markdown of several topics, one after the other.
func GetTopics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			expanded = all
		}
		for _, topic := range expanded {
			content, err := GetTopic(topic)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// GetAllTopics returns the sorted names of the topics.
func GetAllTopics() ([]string, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := strings.TrimSuffix(m, ".md"); name != "readme" {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}
