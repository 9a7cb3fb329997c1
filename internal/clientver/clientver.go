// Package clientver parses and validates the Exporter-Client request
// header. Plugin installations identify themselves with an RFC 8941
// dictionary so the bridge can gate pro features and refuse clients too
// old to speak the current payload contract.
//
// Format: version="1.4.0", tier=pro
package clientver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
	"golang.org/x/mod/semver"
)

// HeaderName is the request header carrying client identification.
const HeaderName = "Exporter-Client"

// MinSupportedVersion is the oldest client version the bridge accepts.
// Clients below it predate the id-keyed payload contract.
const MinSupportedVersion = "1.2.0"

// Tier is the client's license tier.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Info describes one identified client.
type Info struct {
	Version string // empty when the client did not declare one
	Tier    Tier
}

// Pro reports whether the client holds an active pro license.
func (i *Info) Pro() bool {
	return i.Tier == TierPro
}

// Parse extracts client info from the header value. A missing header is
// not an error: anonymous clients are treated as free tier with no
// version check.
func Parse(header string) (*Info, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return &Info{Tier: TierFree}, nil
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return nil, fmt.Errorf("invalid %s header: %w", HeaderName, err)
	}

	info := &Info{Tier: TierFree}

	if member, ok := dict.Get("version"); ok {
		v, err := itemString(member)
		if err != nil {
			return nil, fmt.Errorf("invalid %s version: %w", HeaderName, err)
		}
		info.Version = v
	}

	if member, ok := dict.Get("tier"); ok {
		v, err := itemString(member)
		if err != nil {
			return nil, fmt.Errorf("invalid %s tier: %w", HeaderName, err)
		}
		switch Tier(strings.ToLower(v)) {
		case TierPro:
			info.Tier = TierPro
		case TierFree:
			info.Tier = TierFree
		default:
			return nil, fmt.Errorf("invalid %s tier %q", HeaderName, v)
		}
	}

	return info, nil
}

// itemString accepts both sf-string and sf-token member values.
func itemString(member httpsfv.Member) (string, error) {
	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", errors.New("member must be an item")
	}
	switch v := item.Value.(type) {
	case string:
		return v, nil
	case httpsfv.Token:
		return string(v), nil
	}
	return "", errors.New("member must be a string or token")
}

// VersionError is returned when a client declares a version below the
// supported floor.
type VersionError struct {
	ClientVersion string
	MinVersion    string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("client version %s is no longer supported, minimum is %s", e.ClientVersion, e.MinVersion)
}

// CheckVersion validates the declared version against the floor.
// Clients that declare no version pass: the header predates versioning.
func (i *Info) CheckVersion(min string) error {
	if i.Version == "" {
		return nil
	}

	cv := normalizeVersion(i.Version)
	mv := normalizeVersion(min)

	// Non-semver values fall back to string comparison, which works for
	// date-style versions.
	if !semver.IsValid(cv) || !semver.IsValid(mv) {
		if i.Version < min {
			return &VersionError{ClientVersion: i.Version, MinVersion: min}
		}
		return nil
	}

	if semver.Compare(cv, mv) < 0 {
		return &VersionError{ClientVersion: i.Version, MinVersion: min}
	}
	return nil
}

// normalizeVersion adds the "v" prefix semver parsing requires.
func normalizeVersion(v string) string {
	if v == "" {
		return "v0.0.0"
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}
