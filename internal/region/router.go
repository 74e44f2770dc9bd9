package region

import "strings"

// DefaultCluster is used for region codes missing from the table. The
// provider resolves every cluster, so an unrecognized code degrades to a
// slower route instead of failing ingestion.
const DefaultCluster = "sea"

var routing = map[string]string{
	"na":   "americas",
	"br":   "americas",
	"lan":  "americas",
	"las":  "americas",
	"kr":   "asia",
	"jp":   "asia",
	"tw":   "asia",
	"euw":  "europe",
	"eune": "europe",
	"tr":   "europe",
	"ru":   "europe",
	"oce":  "sea",
	"ph":   "sea",
	"sg":   "sea",
	"th":   "sea",
	"vn":   "sea",
}

// Route maps a user-facing region code to the provider's routing cluster.
// Case-insensitive; unknown codes resolve to DefaultCluster.
func Route(code string) string {
	if cluster, ok := routing[strings.ToLower(code)]; ok {
		return cluster
	}
	return DefaultCluster
}
