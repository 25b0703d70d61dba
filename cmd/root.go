package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vconv/internal/config"
)

var (
	flagMP3        bool
	flagDelete     bool
	flagExt        []string
	flagMinSize    string
	flagFFmpeg     string
	flagTimeout    time.Duration
	flagWatch      bool
	flagSettle     time.Duration
	flagNoProgress bool
	flagLogFile    string
	flagLogLevel   string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "convert [flags] <input_path> <output_directory>",
	Short: "Remux FLV and MPEG-TS recordings to MP4, optionally extracting MP3 audio",
	Long: "convert remuxes .flv and .ts recordings into MP4 without re-encoding.\n" +
		"The input may be a single file or a directory; directories are processed one file at a time\n" +
		"and files below the minimum size are skipped. Existing outputs are never regenerated.",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, args[0], args[1], cmd.OutOrStdout())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, .env, CONVERT_* variables and the flags the
// user actually set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		return cfg, err
	}
	if err := cfg.LoadEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("ext") {
		cfg.Extensions = flagExt
	}
	if changed("min-size") {
		n, err := config.ParseSize(flagMinSize)
		if err != nil {
			return cfg, fmt.Errorf("--min-size: %w", err)
		}
		cfg.MinSize = n
	}
	if changed("ffmpeg") {
		cfg.FFmpeg = flagFFmpeg
	}
	if changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if changed("settle") {
		cfg.Settle = flagSettle
	}
	if changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	if flagNoProgress {
		cfg.Progress = false
	}
	cfg.Audio = flagMP3
	cfg.DeleteSource = flagDelete
	cfg.Watch = flagWatch

	return cfg, cfg.Validate()
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	f := rootCmd.Flags()
	f.BoolVar(&flagMP3, "mp3", false, "also extract an MP3 audio track")
	f.BoolVar(&flagDelete, "delete", false, "delete each source after all requested outputs exist")
	f.StringSliceVar(&flagExt, "ext", nil, "accepted source extensions (default .flv,.ts)")
	f.StringVar(&flagMinSize, "min-size", "100MiB", "minimum source size; smaller files are skipped in directory mode and rejected as a single input")
	f.StringVar(&flagFFmpeg, "ffmpeg", "ffmpeg", "ffmpeg binary name or path")
	f.DurationVar(&flagTimeout, "timeout", 0, "per-stage ffmpeg time limit (0 = none)")
	f.BoolVar(&flagWatch, "watch", false, "keep watching the input directory after the first pass")
	f.DurationVar(&flagSettle, "settle", 2*time.Second, "how long a new file must stay unchanged in watch mode")
	f.BoolVar(&flagNoProgress, "no-progress", false, "disable the progress display")
	f.StringVar(&flagLogFile, "log-file", "", "append log events to this file")
	f.StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level debug")
}
