package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ytnotes/internal/client"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/progress"
	"github.com/ziadkadry99/ytnotes/internal/render"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

var generateCmd = &cobra.Command{
	Use:   "generate [youtube-url]",
	Short: "Generate notes for a YouTube lecture",
	Long: `Fetches the transcript of a YouTube video and turns it into structured notes.
Without a URL (argument or --url) the command runs interactively. Notes are generated in-process
unless --server (or server_url in the config) points at a running ytnotes server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("url", "", "YouTube video URL")
	generateCmd.Flags().String("style", string(notes.StyleDefault), "note style: default, concise, detailed, key_points")
	generateCmd.Flags().String("format", "text", "output format: text or html")
	generateCmd.Flags().Bool("copy", false, "copy the notes to the clipboard")
	generateCmd.Flags().Bool("download", false, "save the notes to the download directory")
	generateCmd.Flags().String("server", "", "base URL of a ytnotes server (overrides config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	style, _ := cmd.Flags().GetString("style")
	format, _ := cmd.Flags().GetString("format")
	doCopy, _ := cmd.Flags().GetBool("copy")
	doDownload, _ := cmd.Flags().GetBool("download")
	serverURL, _ := cmd.Flags().GetString("server")
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}

	formatter, err := outputFormatter(format)
	if err != nil {
		return err
	}

	var api client.API
	if serverURL != "" {
		logger.Debug("using remote server", "url", serverURL)
		api = client.NewAPIClient(serverURL, &http.Client{Timeout: cfg.RequestTimeoutDuration()})
	} else {
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		api = client.NewLocalAPI(a.notes)
	}

	view := newTerminalView(cmd.OutOrStdout(), progress.NewLoader(os.Stderr), logger)
	ctrl := client.NewController(view, api, systemClipboard{}, dirSaver{dir: cfg.DownloadDir},
		client.WithFormatter(formatter))

	rawURL, _ := cmd.Flags().GetString("url")
	if len(args) == 1 {
		rawURL = args[0]
	}
	interactive := rawURL == ""
	if interactive {
		rawURL, style, err = promptRequest(ctrl, style)
		if err != nil {
			return err
		}
	} else if ctrl.URLInput(rawURL) == youtube.ValidityInvalid {
		logger.Warn("URL does not look like a YouTube video link", "url", rawURL)
	}

	ctrl.Generate(ctx, rawURL, style)
	if ctrl.State().CurrentNotes == "" {
		msg := view.LastError()
		if msg == "" {
			msg = client.GenericError
		}
		return errors.New(msg)
	}

	if doCopy {
		ctrl.Copy()
	}
	if doDownload {
		if err := saveNotes(ctrl); err != nil {
			return err
		}
	}
	if interactive && !doCopy && !doDownload {
		return promptActions(ctrl)
	}
	return nil
}

func outputFormatter(format string) (func(string) string, error) {
	switch format {
	case "text", "":
		return func(s string) string { return s }, nil
	case "html":
		return func(s string) string {
			out, err := render.HTML(s)
			if err != nil {
				return render.Light(s)
			}
			return out
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or html)", format)
	}
}

func saveNotes(ctrl *client.Controller) error {
	path, err := ctrl.Download()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Notes saved to %s\n", path)
	return nil
}

// promptRequest asks for a URL, validating as the user types, and a style.
func promptRequest(ctrl *client.Controller, style string) (string, string, error) {
	urlPrompt := promptui.Prompt{
		Label: "YouTube URL",
		Validate: func(input string) error {
			switch ctrl.URLInput(input) {
			case youtube.ValidityEmpty:
				return errors.New(client.MsgEmptyURL)
			case youtube.ValidityInvalid:
				return errors.New("invalid YouTube URL")
			}
			return nil
		},
	}
	rawURL, err := urlPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("prompt cancelled: %w", err)
	}

	labels := make([]string, len(notes.Styles))
	cursor := 0
	for i, s := range notes.Styles {
		labels[i] = s.Label()
		if s == notes.ParseStyle(style) {
			cursor = i
		}
	}
	stylePrompt := promptui.Select{
		Label:     "Note style",
		Items:     labels,
		CursorPos: cursor,
	}
	idx, _, err := stylePrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return rawURL, string(notes.Styles[idx]), nil
}

// promptActions offers copy and download until the user is done.
func promptActions(ctrl *client.Controller) error {
	actions := []string{client.LabelCopy, client.LabelDownload, "Done"}
	for {
		sel := promptui.Select{
			Label: "What next?",
			Items: actions,
		}
		_, choice, err := sel.Run()
		if err != nil {
			return nil
		}
		switch choice {
		case client.LabelCopy:
			ctrl.Copy()
		case client.LabelDownload:
			if err := saveNotes(ctrl); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
