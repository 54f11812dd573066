package cli

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/roomforge/roomforge-go/pkg/room"
)

// newTokenCmd groups the token subcommands.
func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token [command]",
		Short: "Issue participant tokens",
	}
	tokenCmd.AddCommand(newTokenCreateCmd())
	return tokenCmd
}

func newTokenCreateCmd() *cobra.Command {
	var roleStr, data string
	cmd := &cobra.Command{
		Use:   "create SESSION_ID [flags]",
		Short: "Issue a participant token for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := room.NewTokenOptionsBuilder()
			if roleStr != "" {
				role, err := room.ParseRole(roleStr)
				if err != nil {
					return err
				}
				builder.Role(role)
			}
			if data != "" {
				builder.Data(data)
			}
			opts := builder.Build()

			s, err := newRoomClient().GetSession(args[0])
			if err != nil {
				return err
			}
			token, err := s.IssueToken(&opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				out := map[string]any{"token": token}
				if claims := decodeTokenClaims(token); claims != nil {
					out["claims"] = claims
				}
				printJSON(out)
				return nil
			}
			okLabel.Printf("Token: %s\n", token)
			if claims := decodeTokenClaims(token); claims != nil {
				for k, v := range claims {
					cmd.Printf("  %s: %v\n", k, v)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&roleStr, "role", "", "Token role (SUBSCRIBER, PUBLISHER, MODERATOR)")
	cmd.Flags().StringVar(&data, "data", "", "Opaque data the server attaches to the participant")
	return cmd
}

// decodeTokenClaims displays the claims of JWT-shaped tokens without
// verification; roomctl has no signing key and only surfaces what the
// server embedded. Non-JWT tokens simply print as-is.
func decodeTokenClaims(token string) map[string]string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	out := make(map[string]string, len(claims))
	for k, v := range claims {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
