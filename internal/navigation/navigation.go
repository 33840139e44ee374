// Package navigation builds the navigation bar for anonymous and signed-in users.
package navigation

import "strings"

// State is what the navigation bar depends on
type State struct {
	Authenticated  bool
	IsAdmin        bool
	Path           string
	Username       string
	UnreadBell     int64
	UnreadMessages int64
}

// Link is one entry of the navigation bar
type Link struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
	Badge  int64  `json:"badge,omitempty"`
}

// Bar is the rendered navigation bar
type Bar struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Links         []Link `json:"links"`
}

// Build returns the links for s in display order
func Build(s State) Bar {
	var links []Link
	if !s.Authenticated {
		links = []Link{
			{Label: "Home", Href: "/"},
			{Label: "Topics", Href: "/topics"},
			{Label: "Login", Href: "/login"},
			{Label: "Sign up", Href: "/register"},
		}
	} else {
		links = []Link{
			{Label: "Home", Href: "/home"},
			{Label: "Messages", Href: "/messages", Badge: s.UnreadMessages},
			{Label: "Invite", Href: "/invite"},
			{Label: "Notifications", Href: "/notifications", Badge: s.UnreadBell},
			{Label: "Profile", Href: "/profile"},
		}
		if s.IsAdmin {
			links = append(links, Link{Label: "Admin", Href: "/admin"})
		}
	}

	for i := range links {
		links[i].Active = isActive(s.Path, links[i].Href)
	}

	bar := Bar{Authenticated: s.Authenticated, Links: links}
	if s.Authenticated {
		bar.Username = s.Username
	}
	return bar
}

func isActive(path, href string) bool {
	if path == "" {
		path = "/"
	}
	if path == href {
		return true
	}
	if href == "/" {
		return false
	}
	return strings.HasPrefix(path, href+"/")
}
