package git

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrInvalidSubdir is wrapped by every subdirectory validation failure.
var ErrInvalidSubdir = errors.New("invalid subdirectory")

// NormalizeSubdirs validates repository-relative directory names and returns them
// cleaned, in forward-slash form, without trailing slashes.
func NormalizeSubdirs(subdirs []string) ([]string, error) {
	if len(subdirs) == 0 {
		return nil, fmt.Errorf("%w: at least one subdirectory is required", ErrInvalidSubdir)
	}

	result := make([]string, 0, len(subdirs))
	for _, raw := range subdirs {
		name, err := normalizeSubdir(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	return result, nil
}

func normalizeSubdir(raw string) (string, error) {
	for _, r := range raw {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w %q: contains control characters", ErrInvalidSubdir, raw)
		}
	}

	name := strings.TrimRight(strings.ReplaceAll(raw, `\`, "/"), "/")
	switch {
	case name == "":
		return "", fmt.Errorf("%w %q: empty name", ErrInvalidSubdir, raw)
	case strings.HasPrefix(name, "/") || (len(name) > 1 && name[1] == ':'):
		return "", fmt.Errorf("%w %q: must be relative to the repository root", ErrInvalidSubdir, raw)
	case strings.HasPrefix(name, "-"):
		return "", fmt.Errorf("%w %q: must not start with '-'", ErrInvalidSubdir, raw)
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w %q: must not contain '..'", ErrInvalidSubdir, raw)
		}
	}

	name = path.Clean(name)
	if name == "." {
		return "", fmt.Errorf("%w %q: refers to the repository root", ErrInvalidSubdir, raw)
	}
	return name, nil
}

// shellQuote quotes s for the /bin/sh that git filter-branch evaluates filters with.
func shellQuote(s string) (string, error) {
	return syntax.Quote(s, syntax.LangPOSIX)
}

// checkShell parses script as POSIX shell.
func checkShell(script string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(script), "filter"); err != nil {
		return fmt.Errorf("filter syntax error: %w", err)
	}
	return nil
}

// RemoveIndexFilter returns the --index-filter that drops subdir from every commit.
func RemoveIndexFilter(subdir string) (string, error) {
	quoted, err := shellQuote(subdir + "/")
	if err != nil {
		return "", err
	}

	filter := "git rm -rf --cached --ignore-unmatch -- " + quoted
	if err := checkShell(filter); err != nil {
		return "", err
	}
	return filter, nil
}

// SplitIndexFilter returns the --index-filter that keeps only the given
// subdirectories and moves their contents to the repository root.
func SplitIndexFilter(subdirs []string) (string, error) {
	grepAlternatives := make([]string, len(subdirs))
	sedAlternatives := make([]string, len(subdirs))
	for i, subdir := range subdirs {
		grepAlternatives[i] = regexp.QuoteMeta(subdir)
		sedAlternatives[i] = strings.ReplaceAll(regexp.QuoteMeta(subdir), "#", `\#`)
	}

	keep, err := shellQuote("^(" + strings.Join(grepAlternatives, "|") + ")/")
	if err != nil {
		return "", err
	}
	move, err := shellQuote(`s#\t(` + strings.Join(sedAlternatives, "|") + `)/#\t#`)
	if err != nil {
		return "", err
	}

	filter := fmt.Sprintf(`git ls-files -z | grep -zvE %s | xargs -0 -r git rm --cached -q
git -c core.quotePath=false ls-files -s | sed -E %s | sort | uniq | GIT_INDEX_FILE="$GIT_INDEX_FILE.new" git update-index --index-info
if test -f "$GIT_INDEX_FILE.new"; then mv "$GIT_INDEX_FILE.new" "$GIT_INDEX_FILE"; fi`, keep, move)

	if err := checkShell(filter); err != nil {
		return "", err
	}
	return filter, nil
}

// parentFilterScript reads a commit's "-p <sha>" parent list on stdin and prints
// back only the independent parents, collapsing merges whose other side became
// redundant after the index rewrite.
const parentFilterScript = `#!/bin/sh
read -r parents || true
parents=$(printf '%s\n' "$parents" | sed 's/-p //g')
set -- $parents
if [ $# -eq 0 ]; then
	exit 0
fi
for parent in $(git show-branch --independent "$@"); do
	printf -- '-p %s ' "$parent"
done
echo
`

// ParentFilter returns the --parent-filter that runs the script at scriptPath.
func ParentFilter(scriptPath string) (string, error) {
	quoted, err := shellQuote(scriptPath)
	if err != nil {
		return "", err
	}

	filter := "sh " + quoted
	if err := checkShell(filter); err != nil {
		return "", err
	}
	return filter, nil
}
