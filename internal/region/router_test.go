package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteKnownRegions(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"na":   "americas",
		"br":   "americas",
		"lan":  "americas",
		"las":  "americas",
		"euw":  "europe",
		"eune": "europe",
		"tr":   "europe",
		"ru":   "europe",
		"kr":   "asia",
		"jp":   "asia",
		"tw":   "asia",
		"oce":  "sea",
		"ph":   "sea",
		"sg":   "sea",
		"th":   "sea",
		"vn":   "sea",
	}
	for code, want := range cases {
		assert.Equal(t, want, Route(code), "region %s", code)
	}
}

func TestRouteIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "americas", Route("NA"))
	assert.Equal(t, "europe", Route("EuW"))
}

func TestRouteUnknownFallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCluster, Route("moon"))
	assert.Equal(t, DefaultCluster, Route(""))
}
