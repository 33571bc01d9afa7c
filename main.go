// Package main provides the entry point for the flowtts CLI, which turns
// narration text in e2e flow specs into cached speech audio plus cue-point
// schedules.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/flowtts/internal/engine"
	"github.com/dgnsrekt/flowtts/internal/flow"
	"github.com/dgnsrekt/flowtts/internal/generate"
	"github.com/dgnsrekt/flowtts/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	allSpecs   bool
	force      bool
	specsDir   string
	audioDir   string
	cacheFile  string
	engineName string
	voice      string
	speed      float64
	lang       string
	format     string
	sampleRate int

	rootCmd = &cobra.Command{
		Use:   "flowtts [SPEC]",
		Short: "Generate narration audio and cue points for e2e test flows",
		Long: paragraph(
			fmt.Sprintf("\nTurn the narration in your e2e flow specs into %s, with timing cue points for every narrated action. Unchanged narration is served from the cache.", keyword("spoken audio")),
		),
		Example:          "  flowtts behavior-verification\n  flowtts --all",
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	specsDir = utils.ExpandPath(viper.GetString("specs_dir"))
	audioDir = utils.ExpandPath(viper.GetString("audio_dir"))
	cacheFile = utils.ExpandPath(viper.GetString("cache_file"))
	engineName = viper.GetString("tts.engine")
	voice = viper.GetString("tts.voice")
	speed = viper.GetFloat64("tts.speed")
	lang = viper.GetString("tts.lang")
	format = viper.GetString("tts.format")
	sampleRate = viper.GetInt("tts.sample_rate")

	if cacheFile == "" {
		cacheFile = filepath.Join(audioDir, ".narration-cache.json")
	}

	if speed < 0.1 || speed > 3.0 {
		return fmt.Errorf("tts speed must be between 0.1 and 3.0, got %.2f", speed)
	}
	if sampleRate < 8000 || sampleRate > 192000 {
		return fmt.Errorf("tts sample_rate must be between 8000 and 192000, got %d", sampleRate)
	}
	switch format {
	case "wav", "mp3", "flac":
	default:
		return fmt.Errorf("unsupported audio format %q (supported: wav, mp3, flac)", format)
	}

	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	available, err := flow.ListSpecs(specsDir)
	if err != nil {
		return err
	}

	var names []string
	switch {
	case allSpecs:
		if len(available) == 0 {
			return fmt.Errorf("no specs found in %s", specsDir)
		}
		names = available
		log.Info("generating narrations", "specs", len(names))
	case len(args) == 1:
		names = []string{args[0]}
		if !contains(available, args[0]) {
			if suggestions := flow.Suggest(args[0], available); len(suggestions) > 0 {
				log.Error("spec not found", "spec", args[0],
					"did-you-mean", strings.Join(suggestions, ", "))
			}
		}
	default:
		_ = cmd.Help()
		fmt.Println()
		fmt.Println("Available specs:")
		for _, name := range available {
			fmt.Printf("  - %s\n", name)
		}
		return errors.New("no spec specified")
	}

	eng, err := engine.New(engine.Config{
		Engine: engineName,
		Python: viper.GetString("tts.python"),
		Model:  viper.GetString("tts.model"),
	})
	if err != nil {
		return err
	}

	gen := generate.New(generate.Config{
		SpecsDir:   specsDir,
		AudioDir:   audioDir,
		CachePath:  cacheFile,
		Voice:      voice,
		Speed:      speed,
		Language:   lang,
		Format:     format,
		SampleRate: sampleRate,
		Force:      force,
	}, eng, engine.NewFFProbe(viper.GetString("probe.binary")), log.Default())

	_, err = gen.Run(cmd.Context(), names)
	return err
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&allSpecs, "all", "a", false, "process every spec in the specs directory")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate audio even when the cache is fresh")
	rootCmd.Flags().String("specs-dir", "", "directory containing flow spec YAML files")
	rootCmd.Flags().String("audio-dir", "", "directory to write audio files into")
	rootCmd.Flags().String("engine", "", "TTS engine (mlx or mock)")
	rootCmd.Flags().String("voice", "", "TTS voice identifier")
	rootCmd.Flags().Float64("speed", 0, "TTS speed multiplier")
	rootCmd.Flags().String("lang", "", "TTS language code")
	rootCmd.Flags().String("format", "", "audio output format")
	rootCmd.Flags().Int("sample-rate", 0, "audio sample rate in Hz")

	// Config bindings
	_ = viper.BindPFlag("specs_dir", rootCmd.Flags().Lookup("specs-dir"))
	_ = viper.BindPFlag("audio_dir", rootCmd.Flags().Lookup("audio-dir"))
	_ = viper.BindPFlag("tts.engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("tts.voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("tts.speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("tts.lang", rootCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("tts.format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("tts.sample_rate", rootCmd.Flags().Lookup("sample-rate"))

	viper.SetDefault("specs_dir", filepath.Join("e2e", "specs"))
	viper.SetDefault("audio_dir", filepath.Join("e2e", "audio"))
	viper.SetDefault("cache_file", "")

	// TTS defaults, tuned for the Kokoro model
	viper.SetDefault("tts.engine", "mlx")
	viper.SetDefault("tts.python", "python3")
	viper.SetDefault("tts.model", engine.DefaultModel)
	viper.SetDefault("tts.voice", "af_heart")
	viper.SetDefault("tts.speed", 1.1)
	viper.SetDefault("tts.lang", "a")
	viper.SetDefault("tts.format", "wav")
	viper.SetDefault("tts.sample_rate", 24000)
	viper.SetDefault("probe.binary", "ffprobe")

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "flowtts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "flowtts")}, dirs...)
	}

	if c := os.Getenv("FLOWTTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("flowtts")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("flowtts")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "flowtts.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
