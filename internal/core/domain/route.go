package domain

import (
	"slices"
	"strings"
	"unicode"
)

// Entry points the guard redirects to.
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

var landingPaths = map[Role]string{
	RoleStudent:  "/student-dashboard",
	RoleEmployer: "/employer-dashboard",
	RoleAdmin:    "/admin-panel",
}

// LandingFor returns the default landing path for a role. Unknown roles land
// on the public home page.
func LandingFor(r Role) string {
	if p, ok := landingPaths[r]; ok {
		return p
	}
	return PathHome
}

// NavItem is a single entry of the dashboard navigation.
type NavItem struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type navEntry struct {
	name  string
	href  func(Identity) string
	roles []Role
}

func staticHref(p string) func(Identity) string {
	return func(Identity) string { return p }
}

var allRoles = []Role{RoleStudent, RoleEmployer, RoleAdmin}

var navigation = []navEntry{
	{name: "Dashboard", href: func(i Identity) string { return LandingFor(i.Role) }, roles: allRoles},
	{name: "Messages", href: staticHref("/messages"), roles: []Role{RoleStudent, RoleEmployer}},
	{name: "My Profile", href: func(i Identity) string { return "/profile/" + i.ID }, roles: []Role{RoleStudent}},
	{name: "Browse Gigs", href: staticHref("/browse-gigs"), roles: []Role{RoleStudent}},
	{name: "My Gigs", href: staticHref("/employer-dashboard/gigs"), roles: []Role{RoleEmployer}},
	{name: "Post a Gig", href: staticHref("/employer-dashboard/post-gig"), roles: []Role{RoleEmployer}},
	{name: "Users", href: staticHref("/admin-panel/users"), roles: []Role{RoleAdmin}},
	{name: "Gigs", href: staticHref("/admin-panel/gigs"), roles: []Role{RoleAdmin}},
	{name: "Analytics", href: staticHref("/admin-panel/analytics"), roles: []Role{RoleAdmin}},
	{name: "Settings", href: staticHref("/settings"), roles: allRoles},
}

// NavigationFor returns the navigation items visible to the identity, in
// display order.
func NavigationFor(i Identity) []NavItem {
	items := make([]NavItem, 0, len(navigation))
	for _, e := range navigation {
		if slices.Contains(e.roles, i.Role) {
			items = append(items, NavItem{Name: e.name, Href: e.href(i)})
		}
	}
	return items
}

// IsLocalPath reports whether p is an absolute path on this site. Anything
// else (full URLs, protocol-relative "//host") is never used as a redirect.
// Control characters are refused since browsers strip them, which can turn
// "/\t/host" into "//host".
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") &&
		!strings.HasPrefix(p, "//") &&
		!strings.Contains(p, `\`) &&
		!strings.ContainsFunc(p, unicode.IsControl)
}

// Section is a guarded route subtree. An empty Roles admits any
// authenticated identity.
type Section struct {
	Prefix string
	Title  string
	Roles  []Role
}

// Sections lists the guarded subtrees of the application.
func Sections() []Section {
	return []Section{
		{Prefix: "/student-dashboard", Title: "Student Dashboard", Roles: []Role{RoleStudent}},
		{Prefix: "/messages", Title: "Messages", Roles: []Role{RoleStudent, RoleEmployer}},
		{Prefix: "/employer-dashboard", Title: "Employer Dashboard", Roles: []Role{RoleEmployer}},
		{Prefix: "/admin-panel", Title: "Admin Panel", Roles: []Role{RoleAdmin}},
		{Prefix: "/settings", Title: "Settings"},
	}
}
