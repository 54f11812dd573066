package cli

import (
	"github.com/spf13/cobra"

	"github.com/roomforge/roomforge-go/internal/common/httpclient"
	"github.com/roomforge/roomforge-go/pkg/room"
)

func newRoomClient() *room.Client {
	return room.NewClientWithTransport(httpclient.NewClient(GetConfig()))
}

// newSessionCmd groups the session subcommands.
func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session [command]",
		Short: "Manage media sessions on the RoomForge server",
	}

	sessionCmd.AddCommand(newSessionCreateCmd())
	sessionCmd.AddCommand(newSessionListCmd())
	sessionCmd.AddCommand(newSessionDescribeCmd())
	sessionCmd.AddCommand(newSessionDisconnectCmd())
	sessionCmd.AddCommand(newSessionUnpublishCmd())
	return sessionCmd
}

func newSessionCreateCmd() *cobra.Command {
	var mediaMode, recordingMode, outputMode, recordingLayout, customLayout, customSessionID string
	cmd := &cobra.Command{
		Use:   "create [flags]",
		Short: "Create a new media session",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := room.NewSessionPropertiesBuilder()
			if mediaMode != "" {
				m, err := room.ParseMediaMode(mediaMode)
				if err != nil {
					return err
				}
				builder.MediaMode(m)
			}
			if recordingMode != "" {
				m, err := room.ParseRecordingMode(recordingMode)
				if err != nil {
					return err
				}
				builder.RecordingMode(m)
			}
			if outputMode != "" {
				m, err := room.ParseOutputMode(outputMode)
				if err != nil {
					return err
				}
				builder.DefaultOutputMode(m)
			}
			if recordingLayout != "" {
				l, err := room.ParseRecordingLayout(recordingLayout)
				if err != nil {
					return err
				}
				builder.DefaultRecordingLayout(l)
			}
			if customLayout != "" {
				builder.DefaultCustomLayout(customLayout)
			}
			if customSessionID != "" {
				builder.CustomSessionID(customSessionID)
			}
			props := builder.Build()

			s, err := newRoomClient().CreateSession(&props)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{"session_id": s.ID()})
			} else {
				okLabel.Printf("Session created: %s\n", s.ID())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaMode, "media-mode", "", "Media mode (ROUTED, RELAYED)")
	cmd.Flags().StringVar(&recordingMode, "recording-mode", "", "Recording mode (ALWAYS, MANUAL)")
	cmd.Flags().StringVar(&outputMode, "output-mode", "", "Default output mode (COMPOSED, INDIVIDUAL)")
	cmd.Flags().StringVar(&recordingLayout, "recording-layout", "", "Default recording layout")
	cmd.Flags().StringVar(&customLayout, "custom-layout", "", "Default custom layout")
	cmd.Flags().StringVar(&customSessionID, "custom-session-id", "", "Custom session id")
	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := newRoomClient().ListSessions()
			if err != nil {
				return err
			}
			out := make([]map[string]any, 0, len(sessions))
			for _, s := range sessions {
				out = append(out, s.Snapshot())
			}
			if jsonOutput {
				printJSON(out)
				return nil
			}
			if len(sessions) == 0 {
				cmd.Println("No active sessions")
				return nil
			}
			return printYAML(out)
		},
	}
}

func newSessionDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe SESSION_ID",
		Short: "Describe a session's participant graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newRoomClient().GetSession(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(s.Snapshot())
				return nil
			}
			return printYAML(s.Snapshot())
		},
	}
}

func newSessionDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect SESSION_ID CONNECTION_ID",
		Short: "Force-disconnect a participant",
		Long: `Force-disconnect a participant from a session. Every stream the
participant was publishing is removed, and subscriptions to those streams are
dropped from the remaining participants.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newRoomClient().GetSession(args[0])
			if err != nil {
				return err
			}
			if err := s.ForceDisconnect(args[1]); err != nil {
				return err
			}
			okLabel.Printf("Connection %s disconnected\n", args[1])
			return nil
		},
	}
}

func newSessionUnpublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish SESSION_ID STREAM_ID",
		Short: "Force-unpublish a stream",
		Long: `Force-unpublish a stream from a session. Unlike disconnect this does not
update the local participant view; run "roomctl session describe" afterwards to
see the server-side result.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newRoomClient().GetSession(args[0])
			if err != nil {
				return err
			}
			if err := s.ForceUnpublish(args[1]); err != nil {
				return err
			}
			okLabel.Printf("Stream %s unpublished\n", args[1])
			return nil
		},
	}
}
