package invite

import "strings"

// TopicList is an ordered list of unique, non-empty topics with an optional
// main topic. The first topic added becomes the main topic.
type TopicList struct {
	items []string
	// main is the index of the main topic plus one; zero means none
	main int
}

// NewTopicList builds a list by adding each topic in order
func NewTopicList(topics ...string) *TopicList {
	l := &TopicList{}
	for _, t := range topics {
		l.Add(t)
	}
	return l
}

// Add appends a trimmed topic. Empty and duplicate topics are rejected.
func (l *TopicList) Add(topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" || l.Contains(topic) {
		return false
	}
	l.items = append(l.items, topic)
	if l.main == 0 {
		l.main = 1
	}
	return true
}

// Edit replaces the topic at i. Edits to an empty or already present value
// leave the list unchanged.
func (l *TopicList) Edit(i int, topic string) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false
	}
	if topic == l.items[i] {
		return true
	}
	if l.Contains(topic) {
		return false
	}
	l.items[i] = topic
	return true
}

// Remove deletes a topic by value
func (l *TopicList) Remove(topic string) bool {
	topic = strings.TrimSpace(topic)
	for i, t := range l.items {
		if t == topic {
			return l.RemoveAt(i)
		}
	}
	return false
}

// RemoveAt deletes the topic at index i
func (l *TopicList) RemoveAt(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)

	mainIdx := l.main - 1
	switch {
	case len(l.items) == 0:
		l.main = 0
	case i == mainIdx:
		l.main = 1
	case i < mainIdx:
		l.main--
	}
	return true
}

// SetMain marks the topic at index i as the main topic
func (l *TopicList) SetMain(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.main = i + 1
	return true
}

// Main returns the main topic
func (l *TopicList) Main() (string, bool) {
	if l.main == 0 || l.main > len(l.items) {
		return "", false
	}
	return l.items[l.main-1], true
}

// MainIndex returns the index of the main topic or -1
func (l *TopicList) MainIndex() int {
	return l.main - 1
}

// Contains reports whether the trimmed topic is already present
func (l *TopicList) Contains(topic string) bool {
	topic = strings.TrimSpace(topic)
	for _, t := range l.items {
		if t == topic {
			return true
		}
	}
	return false
}

// Items returns a copy of the topics
func (l *TopicList) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of topics
func (l *TopicList) Len() int {
	return len(l.items)
}
