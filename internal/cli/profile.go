package cli

import (
	"fmt"
	"os"
	"strings"

	"champion-quiz/internal/domain"
	"champion-quiz/internal/imaging"
	"github.com/spf13/cobra"
)

// NewProfileCmd shows or edits the local player profile.
func NewProfileCmd(configPath *string) *cobra.Command {
	var name, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the display name and avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			profile := d.store.Profile(cmd.Context())
			changed := false
			if cmd.Flags().Changed("name") {
				profile.DisplayName = strings.TrimSpace(name)
				if profile.DisplayName == "" {
					return domain.ErrDisplayNameRequired
				}
				changed = true
			}
			if cmd.Flags().Changed("avatar") {
				profile.AvatarImage, err = avatarValue(avatar)
				if err != nil {
					return err
				}
				changed = true
			}
			if changed && !d.store.SaveProfile(cmd.Context(), profile) {
				return fmt.Errorf("profile could not be saved: %w", domain.ErrQuotaExceeded)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:   %s\n", profile.DisplayName)
			fmt.Fprintf(out, "avatar: %s\n", describeAvatar(profile.AvatarImage))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name shown on the leaderboard")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar image file or URL (empty clears it)")
	return cmd
}

// avatarValue keeps URLs and inlines local image files as PNG data URIs.
func avatarValue(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || imaging.IsDataURI(v) {
		return v, nil
	}
	raw, err := os.ReadFile(v)
	if err != nil {
		return "", err
	}
	png, err := imaging.EnsurePNG(raw)
	if err != nil {
		return "", fmt.Errorf("avatar %s: %w", v, err)
	}
	return imaging.DataURI(png), nil
}

func describeAvatar(v string) string {
	switch {
	case v == "":
		return "(none)"
	case imaging.IsDataURI(v):
		return fmt.Sprintf("inline image (%d bytes)", len(v))
	default:
		return v
	}
}
