// Package deploy turns plugin actions into file operations and executes
// them against the enabled targets.
package deploy

import (
	"github.com/felixgeelhaar/plm/internal/domain/placement"
)

// ActionKind is the user-level action taken on a plugin.
type ActionKind int

const (
	ActionInstall ActionKind = iota
	ActionUninstall
	ActionEnable
	ActionDisable
)

func (k ActionKind) String() string {
	switch k {
	case ActionInstall:
		return "install"
	case ActionUninstall:
		return "uninstall"
	case ActionEnable:
		return "enable"
	case ActionDisable:
		return "disable"
	default:
		return "unknown"
	}
}

// Action names a plugin and what to do with it. An empty Marketplace
// means the plugin was installed from GitHub.
type Action struct {
	Kind        ActionKind
	PluginName  string
	Marketplace string
}

// Install returns an install action.
func Install(name, marketplace string) Action {
	return Action{Kind: ActionInstall, PluginName: name, Marketplace: marketplace}
}

// Uninstall returns an uninstall action.
func Uninstall(name, marketplace string) Action {
	return Action{Kind: ActionUninstall, PluginName: name, Marketplace: marketplace}
}

// Enable returns an enable action.
func Enable(name, marketplace string) Action {
	return Action{Kind: ActionEnable, PluginName: name, Marketplace: marketplace}
}

// Disable returns a disable action.
func Disable(name, marketplace string) Action {
	return Action{Kind: ActionDisable, PluginName: name, Marketplace: marketplace}
}

// IsDeploy reports whether the action places components.
func (a Action) IsDeploy() bool {
	return a.Kind == ActionInstall || a.Kind == ActionEnable
}

// IsRemove reports whether the action removes placed components.
func (a Action) IsRemove() bool {
	return a.Kind == ActionUninstall || a.Kind == ActionDisable
}

// Origin returns the placement origin of the action's plugin.
func (a Action) Origin() placement.Origin {
	return placement.OriginFromCache(a.PluginName, a.Marketplace)
}
