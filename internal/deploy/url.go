package deploy

import (
	"net/url"
	"strings"
)

// PublishedURL derives the GitHub Pages address from a GitHub remote. Other
// remotes are returned unchanged.
func PublishedURL(remote string) string {
	remote = strings.TrimSpace(remote)
	owner, repo, ok := githubRepo(remote)
	if !ok {
		return remote
	}
	host := strings.ToLower(owner) + ".github.io"
	if strings.EqualFold(repo, host) {
		return "https://" + host + "/"
	}
	return "https://" + host + "/" + repo + "/"
}

func githubRepo(remote string) (string, string, bool) {
	var path string
	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	default:
		u, err := url.Parse(remote)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", "", false
		}
		path = u.Path
	}
	path = strings.Trim(strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git"), "/")
	owner, repo, found := strings.Cut(path, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}
