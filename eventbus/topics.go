package eventbus

import "strings"

const blogEventsSuffix = "blog.events"

// BlogEventsTopic returns the lifecycle topic for the given prefix, e.g. "blog-api.blog.events".
func BlogEventsTopic(prefix string) Topic {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return NewTopic(blogEventsSuffix)
	}
	return NewTopic(prefix + "." + blogEventsSuffix)
}
