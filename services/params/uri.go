package params

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dros-labs/minsub/models"
)

// DirectoryFmt ensures that a directory reference ends with '/'. Recursive
// copies depend on it.
func DirectoryFmt(directory string) string {
	return strings.TrimRight(directory, "/") + "/"
}

// splitURI splits a URI on its last forward slash. The directory part keeps
// its trailing slash so that scheme separators ("gs://") survive intact;
// path.Split would collapse them.
func splitURI(uri string) (dir, base string) {
	i := strings.LastIndex(uri, "/")
	if i < 0 {
		return "", uri
	}
	return uri[:i+1], uri[i+1:]
}

// validateFileProvider checks the storage provider of a URI. Only GCS is
// supported; local paths are rejected here even though a rewriter for them
// exists below.
func validateFileProvider(uri string) error {
	if strings.HasPrefix(uri, "gs://") {
		return nil
	}
	return &models.UriError{URI: uri, Reason: "unsupported provider, expected a gs:// location"}
}

// validatePaths does basic validation of the URI before any rewriting.
//
// Character ranges ([0-9]) could be supported with some more work, but
// basic asterisk wildcards are assumed sufficient; square brackets and
// question marks are rejected since if they actually worked it would be
// accidental. Wildcards at the directory level and "**" would need
// expansion into a series of parameters, so only filename-level '*' passes.
func validatePaths(uri string, recursive bool) error {
	dir, base := splitURI(uri)

	if strings.ContainsAny(uri, "[]") {
		return &models.UriError{URI: uri, Reason: "square brackets (character ranges) are not supported"}
	}
	if strings.Contains(uri, "?") {
		return &models.UriError{URI: uri, Reason: "question mark wildcards are not supported"}
	}
	if strings.Contains(dir, "*") {
		return &models.UriError{URI: uri, Reason: "path wildcards (*) are only supported for files"}
	}
	if strings.Contains(base, "**") {
		return &models.UriError{URI: uri, Reason: `recursive wildcards ("**") are not supported`}
	}
	if base == "." || base == ".." {
		return &models.UriError{URI: uri, Reason: `path characters ".." and "." are not supported for file names`}
	}
	// Traversal inside the directory part would let the rewritten path
	// escape the mount root.
	if strings.Contains(dir, "/../") || strings.Contains(dir, "/./") {
		return &models.UriError{URI: uri, Reason: `path characters ".." and "." are not supported in paths`}
	}

	// Non-recursive IO must not reference a bare directory.
	if !recursive && base == "" {
		return &models.UriError{URI: uri, Reason: "values that are not recursive must reference a filename or wildcard"}
	}

	return nil
}

// rewriteGCSURI rewrites a GCS path to a docker mount. The raw URI is
// already canonical, so it passes through unchanged; the docker path has
// the "gs://" prefix replaced with "gs/" so the reference becomes a valid
// sub-path of the data disk mount, distinguishable from rewritten local
// paths.
func rewriteGCSURI(rawURI string) (uri, dockerPath string) {
	return rawURI, strings.Replace(rawURI, "gs://", "gs/", 1)
}

// ParseURI validates a storage flag value and returns the docker path it
// is mounted at together with its split canonical form. Recursive URIs are
// coerced to directory form first.
func ParseURI(rawURI string, recursive bool) (string, models.UriParts, error) {
	if recursive {
		rawURI = DirectoryFmt(rawURI)
	}
	if err := validateFileProvider(rawURI); err != nil {
		return "", models.UriParts{}, err
	}
	if err := validatePaths(rawURI, recursive); err != nil {
		return "", models.UriParts{}, err
	}

	uri, dockerPath := rewriteGCSURI(rawURI)
	dir, base := splitURI(uri)
	return dockerPath, models.UriParts{
		Path:      DirectoryFmt(dir),
		Basename:  base,
		Recursive: recursive,
	}, nil
}

var localDockerRewrites = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`/\.\.`), "/_dotdot_"},
	{regexp.MustCompile(`^\.\.`), "_dotdot_"},
	{regexp.MustCompile(`^~/`), "_home_/"},
	{regexp.MustCompile(`^file:/`), ""},
}

// RewriteLocalPath rewrites a local filesystem reference the way ParseURI
// rewrites GCS URIs. It is not reachable through the provider check yet;
// it is the extension point for a local file provider.
//
// The normalized URI has the "file://", "~/" and "./" prefixes expanded
// and extraneous indirections collapsed:
//
//	/tmp/a_path/../B_PATH/file.txt -> /tmp/B_PATH/file.txt
//	/myhome/./mydir/               -> /myhome/mydir/
//
// The docker path is re-rooted under a literal "file/" segment so local
// and remote mounts never collide. Indirections that would climb above the
// rewrite root are replaced with synthetic tokens instead of resolved, so
// the container path cannot escape its mount and the invoker's home
// directory layout never leaks into the request:
//
//	./../upper_dir/     -> file/_dotdot_/upper_dir/
//	~/localdata/*.bam   -> file/_home_/localdata/*.bam
func RewriteLocalPath(rawURI string) (normalized, dockerPath string) {
	// Split off the filename so it is never rewritten.
	rawPath, filename := splitURI(rawURI)

	// The resolvable local path: strip special prefixes and condense
	// indirections.
	normedPath := rawPath
	for _, pr := range []struct{ prefix, replacement string }{
		{"file:///", "/"},
		{"~/", os.Getenv("HOME")},
		{"./", ""},
		{"file:/", "/"},
	} {
		if strings.HasPrefix(normedPath, pr.prefix) {
			normedPath = path.Join(pr.replacement, normedPath[len(pr.prefix):])
		}
	}
	abs, err := filepath.Abs(normedPath)
	if err != nil {
		abs = normedPath
	}
	normalized = DirectoryFmt(abs) + filename

	// The in-container path: condense indirections, substitute the ones
	// that remain, strip any leading '.' or '/' and re-root under "file/".
	dockerPath = path.Clean(rawPath)
	for _, rw := range localDockerRewrites {
		dockerPath = rw.pattern.ReplaceAllString(dockerPath, rw.replacement)
	}
	dockerPath = strings.TrimLeft(dockerPath, "./")
	dockerPath = DirectoryFmt("file/"+dockerPath) + filename
	return normalized, dockerPath
}
