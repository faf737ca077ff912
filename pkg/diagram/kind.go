package diagram

import (
	"strings"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Kind is the resource category of a node. It selects the icon style the
// renderer draws for the node.
type Kind int

const (
	// KindWebApp is a hosted web front end (App Service, Static Web Apps).
	KindWebApp Kind = iota + 1
	// KindFunctionApp is a serverless compute host.
	KindFunctionApp
	// KindDatabase is a managed database.
	KindDatabase
	// KindMonitoring is a telemetry or monitoring service.
	KindMonitoring
	// KindStorage is a storage account or bucket.
	KindStorage
	// KindClient is an external client outside the deployment.
	KindClient
)

var kindNames = map[Kind]string{
	KindWebApp:      "webapp",
	KindFunctionApp: "functionapp",
	KindDatabase:    "database",
	KindMonitoring:  "monitoring",
	KindStorage:     "storage",
	KindClient:      "client",
}

// kindAliases maps alternative spellings accepted by [ParseKind].
var kindAliases = map[string]Kind{
	"web":            KindWebApp,
	"appservice":     KindWebApp,
	"appservices":    KindWebApp,
	"function":       KindFunctionApp,
	"functions":      KindFunctionApp,
	"functionapps":   KindFunctionApp,
	"db":             KindDatabase,
	"cosmosdb":       KindDatabase,
	"insights":       KindMonitoring,
	"storageaccount": KindStorage,
	"users":          KindClient,
	"user":           KindClient,
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds returns all valid kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindWebApp, KindFunctionApp, KindDatabase, KindMonitoring, KindStorage, KindClient}
}

// ParseKind converts a kind name to a Kind. Matching ignores case, dashes
// and underscores, so "web-app", "WebApp" and "web_app" are all accepted.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for k, name := range kindNames {
		if name == norm {
			return k, nil
		}
	}
	if k, ok := kindAliases[norm]; ok {
		return k, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidNode, "unknown node kind %q", s)
}
