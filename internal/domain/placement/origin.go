// Package placement holds the value objects used to decide where a
// component lands inside a target's directory tree.
package placement

import (
	"fmt"
	"strings"
)

// GitHubMarketplace is the marketplace segment used for plugins installed
// straight from a GitHub repository.
const GitHubMarketplace = "github"

// gitHubSeparator joins owner and repository in a GitHub origin.
const gitHubSeparator = "--"

// Origin identifies where a plugin came from. A marketplace origin encodes
// as "marketplace/plugin"; a GitHub origin as "github/owner--repo".
type Origin struct {
	Marketplace string
	Plugin      string
}

// MarketplaceOrigin returns the origin of a plugin listed in a marketplace.
func MarketplaceOrigin(marketplace, plugin string) Origin {
	return Origin{Marketplace: marketplace, Plugin: plugin}
}

// GitHubOrigin returns the origin of a plugin installed from owner/repo.
func GitHubOrigin(owner, repo string) Origin {
	return Origin{Marketplace: GitHubMarketplace, Plugin: owner + gitHubSeparator + repo}
}

// OriginFromCache builds the origin of a cached plugin. An empty
// marketplace means the plugin was installed from GitHub.
func OriginFromCache(name, marketplace string) Origin {
	if marketplace == "" {
		marketplace = GitHubMarketplace
	}
	return MarketplaceOrigin(marketplace, name)
}

// ParseOrigin decodes "marketplace/plugin" or "github/owner--repo".
func ParseOrigin(s string) (Origin, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Origin{}, fmt.Errorf("%w: %q", ErrInvalidOrigin, s)
	}
	return Origin{Marketplace: parts[0], Plugin: parts[1]}, nil
}

// GitHubRepo returns owner and repository for a GitHub origin.
func (o Origin) GitHubRepo() (owner, repo string, ok bool) {
	if o.Marketplace != GitHubMarketplace {
		return "", "", false
	}
	owner, repo, found := strings.Cut(o.Plugin, gitHubSeparator)
	if !found || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// IsGitHub reports whether the origin names a GitHub repository.
func (o Origin) IsGitHub() bool {
	_, _, ok := o.GitHubRepo()
	return ok
}

// IsZero reports whether the origin is unset.
func (o Origin) IsZero() bool {
	return o.Marketplace == "" && o.Plugin == ""
}

// String encodes the origin with "/" separators.
func (o Origin) String() string {
	return o.Marketplace + "/" + o.Plugin
}
