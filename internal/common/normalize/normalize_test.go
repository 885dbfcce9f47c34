package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://leetcode.com/problems/two-sum", "https://leetcode.com/problems/two-sum"},
		{"trailing slash", "https://leetcode.com/problems/two-sum/", "https://leetcode.com/problems/two-sum"},
		{"query", "https://leetcode.com/problems/two-sum?envType=study&id=1", "https://leetcode.com/problems/two-sum"},
		{"fragment", "https://leetcode.com/problems/two-sum#description", "https://leetcode.com/problems/two-sum"},
		{"all three", "https://leetcode.com/problems/two-sum/?a=1#x", "https://leetcode.com/problems/two-sum"},
		{"root", "https://leetcode.com/", "https://leetcode.com"},
		{"several slashes", "https://example.com/a//", "https://example.com/a"},
		{"not absolute", "two-sum", "two-sum"},
		{"malformed", "http://[::1", "http://[::1"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, URL(tc.in))
		})
	}
}

func TestURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://leetcode.com/problems/two-sum/?a=1#x",
		"https://codeforces.com/problemset/problem/4/A",
		"https://example.com/",
		"https://example.com///",
		"https://example.com/a%2Fb/",
		"not a url",
		"http://[::1",
	}
	for _, in := range inputs {
		once := URL(in)
		assert.Equal(t, once, URL(once), in)
	}
}

func TestURL_VariantsCollapse(t *testing.T) {
	base := URL("https://leetcode.com/problems/two-sum")
	for _, v := range []string{
		"https://leetcode.com/problems/two-sum/",
		"https://leetcode.com/problems/two-sum?x=1",
		"https://leetcode.com/problems/two-sum#top",
		"https://LeetCode.com/problems/two-sum",
		"HTTPS://LEETCODE.COM/problems/two-sum",
		"https://leetcode.com:443/problems/two-sum/",
		"https://leetcode.com:/problems/two-sum",
	} {
		assert.Equal(t, base, URL(v), v)
	}
}

func TestURL_HostAndPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://Example.COM:80/a", "http://example.com/a"},
		{"http://example.com:443/a", "http://example.com:443/a"},
		{"https://example.com:8443/a/", "https://example.com:8443/a"},
		{"https://example.com:4430/a", "https://example.com:4430/a"},
		{"https://[::1]:443/a", "https://[::1]/a"},
		{"https://[::1]:8080/a", "https://[::1]:8080/a"},
		// Path case is significant.
		{"https://leetcode.com/problems/Two-Sum", "https://leetcode.com/problems/Two-Sum"},
	}
	for _, tc := range tests {
		got := URL(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, got, URL(got), tc.in)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://leetcode.com/problems/two-sum/", "Two Sum"},
		{"https://leetcode.com/problems/longest_COMMON-prefix", "Longest Common Prefix"},
		{"https://codeforces.com/problemset/problem/4/A", "A"},
		{"https://leetcode.com", UntitledProblem},
		{"https://leetcode.com/", UntitledProblem},
		{"https://leetcode.com/problems/-/", UntitledProblem},
		{"not a url", UntitledProblem},
		{"http://[::1", UntitledProblem},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Title(tc.in), tc.in)
	}
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"array", "hash map", "array"}, Tags(" array, hash map ,, array ,"))
	assert.Equal(t, []string{}, Tags(""))
	assert.Equal(t, []string{}, Tags(" , ,"))
}
