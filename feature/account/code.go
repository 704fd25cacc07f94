package account

import (
	"net/url"
	"strings"
)

// ExtractCode pulls the authorization code out of a redirected URL.
// The code may be in the query, in the fragment, or anywhere after "code=".
// A bare code with no URL around it is returned as is.
func ExtractCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNoCode
	}

	if u, err := url.Parse(input); err == nil {
		if code := u.Query().Get("code"); code != "" {
			return code, nil
		}
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			if code := frag.Get("code"); code != "" {
				return code, nil
			}
		}
	}

	if i := strings.LastIndex(input, "code="); i >= 0 {
		code := input[i+len("code="):]
		if j := strings.IndexAny(code, "&#"); j >= 0 {
			code = code[:j]
		}
		if code != "" {
			return code, nil
		}
		return "", ErrNoCode
	}

	if !strings.ContainsAny(input, ":/?#&= ") {
		return input, nil
	}
	return "", ErrNoCode
}
