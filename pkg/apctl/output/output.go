package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	default:
		return fmt.Errorf("format %s requires a specific formatter", format)
	}
}

// ProfileView is the display projection of a user profile. The backend
// echoes credential metadata (password hash, lock flags) that is never
// shown; structured output gets the same redaction as the table view.
type ProfileView struct {
	ID           string   `json:"id" yaml:"id"`
	Username     string   `json:"username" yaml:"username"`
	Name         string   `json:"name" yaml:"name"`
	ProfileID    string   `json:"profileId,omitempty" yaml:"profileId,omitempty"`
	AdvertiserID string   `json:"advertiserId,omitempty" yaml:"advertiserId,omitempty"`
	Attributes   string   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Authorities  []string `json:"authorities,omitempty" yaml:"authorities,omitempty"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
}

func NewProfileView(profile *gateway.UserProfile) ProfileView {
	view := ProfileView{
		ID:           profile.ID,
		Username:     profile.Username,
		Name:         profile.Name,
		ProfileID:    profile.ProfileID,
		AdvertiserID: profile.AdvertiserID,
		Attributes:   profile.Attributes,
		Enabled:      profile.Enabled,
	}
	for _, a := range profile.Authorities {
		view.Authorities = append(view.Authorities, a.Authority)
	}
	return view
}

// WriteProfileTable renders a profile view as a two-column table, the
// default human-readable output of whoami.
func WriteProfileTable(w io.Writer, view ProfileView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", view.ID)
	fmt.Fprintf(tw, "USERNAME\t%s\n", view.Username)
	fmt.Fprintf(tw, "NAME\t%s\n", view.Name)
	if len(view.Authorities) > 0 {
		fmt.Fprintf(tw, "AUTHORITIES\t%s\n", strings.Join(view.Authorities, ","))
	}
	fmt.Fprintf(tw, "ENABLED\t%t\n", view.Enabled)
	return tw.Flush()
}
