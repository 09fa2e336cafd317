package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	tts "github.com/Deeks1996/tts-server"
	"github.com/Deeks1996/tts-server/aws"
	"github.com/Deeks1996/tts-server/bolt"
	"github.com/Deeks1996/tts-server/deepgram"
	"github.com/Deeks1996/tts-server/extract"
	"github.com/Deeks1996/tts-server/http"
	"github.com/Deeks1996/tts-server/supabase"
)

func main() {
	m := NewMain()

	// Parse command line flags.
	if err := m.ParseFlags(os.Args[1:]); err == flag.ErrHelp {
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Load configuration.
	if err := m.LoadConfig(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Execute program.
	if err := m.Run(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Shutdown on SIGINT (CTRL-C).
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	fmt.Fprintln(m.Stdout, "received interrupt, shutting down...")
	m.Close()
}

// Main represents the main program execution.
type Main struct {
	ConfigPath string
	Config     Config

	// Input/output streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	closeFn func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath,
		Config:     DefaultConfig(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,

		closeFn: func() error { return nil },
	}
}

// Close cleans up the program.
func (m *Main) Close() error { return m.closeFn() }

// Usage returns the usage message.
func (m *Main) Usage() string {
	return strings.TrimSpace(`
usage: tts-server [flags]

The daemon process for converting text and documents to speech.

The following flags are available:

	-config PATH
		Specifies the configuration file to read.
		Defaults to ~/.tts-server/config

`)
}

// ParseFlags parses the command line flags.
func (m *Main) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("tts-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&m.ConfigPath, "config", "", "config file")
	return fs.Parse(args)
}

// LoadConfig parses the configuration file.
func (m *Main) LoadConfig() error {
	// Default configuration path if not specified.
	path := m.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	// Interpolate path.
	if err := InterpolatePaths(&path); err != nil {
		return err
	}

	// Read configuration file.
	if _, err := toml.DecodeFile(path, &m.Config); os.IsNotExist(err) {
		if m.ConfigPath != "" {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// Run executes the program.
func (m *Main) Run() error {
	// Interpolate config paths.
	dbPath := m.Config.Database.Path
	if err := InterpolatePaths(&dbPath); err != nil {
		return err
	}

	// Initialize auth service.
	authService := supabase.NewAuthService()
	authService.BaseURL = m.Config.Auth.URL
	authService.APIKey = m.Config.Auth.APIKey
	authService.LogOutput = m.Stdout

	// Initialize AWS session for audio storage and, optionally, Polly.
	session, err := aws.NewSession(m.Config.AWS.AccessKeyID, m.Config.AWS.SecretAccessKey, m.Config.AWS.Region)
	if err != nil {
		return err
	}

	// Initialize audio storage.
	audioStorage := aws.NewAudioStorage()
	audioStorage.Session = session
	audioStorage.Bucket = m.Config.Storage.Bucket
	audioStorage.Endpoint = m.Config.Storage.Endpoint
	audioStorage.PublicBaseURL = m.Config.Storage.PublicBaseURL
	audioStorage.LogOutput = m.Stdout
	fmt.Fprintf(m.Stdout, "audio storage: bucket=%s\n", audioStorage.Bucket)

	// Initialize speech service.
	speechService, err := m.speechService(session)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.Stdout, "speech provider: %s\n", m.Config.Speech.Provider)

	// Open database.
	db := bolt.NewDB()
	db.Path = dbPath
	if err := db.Open(); err != nil {
		return err
	}
	fmt.Fprintf(m.Stdout, "database initialized: path=%s\n", m.Config.Database.Path)

	// Instantiate bolt services.
	conversionService := bolt.NewConversionService(db)

	// Assemble the conversion pipeline.
	converter := tts.NewConverter()
	converter.TextExtractor = extract.NewExtractor()
	converter.SpeechService = speechService
	converter.AudioStorage = audioStorage
	converter.ConversionService = conversionService
	converter.LogOutput = m.Stdout

	// Initialize HTTP server.
	httpServer := http.NewServer()
	httpServer.Addr = m.Config.HTTP.Addr
	httpServer.Host = m.Config.HTTP.Host
	httpServer.Autocert = m.Config.HTTP.Autocert
	if m.Config.HTTP.MaxUploadBytes > 0 {
		httpServer.MaxUploadBytes = m.Config.HTTP.MaxUploadBytes
	}
	httpServer.LogOutput = m.Stdout

	httpServer.AuthService = authService
	httpServer.ConversionService = conversionService
	httpServer.Converter = converter

	// Open HTTP server.
	if err := httpServer.Open(); err != nil {
		return err
	}
	serverURL := httpServer.URL()
	fmt.Fprintf(m.Stdout, "http listening: %s\n", serverURL.String())

	// Assign close function.
	m.closeFn = func() error {
		httpServer.Close()
		db.Close()
		return nil
	}

	return nil
}

// speechService returns the configured speech provider.
func (m *Main) speechService(session *aws.Session) (tts.SpeechService, error) {
	switch m.Config.Speech.Provider {
	case "", "deepgram":
		s := deepgram.NewSpeechService()
		s.APIKey = m.Config.Deepgram.APIKey
		if m.Config.Deepgram.BaseURL != "" {
			s.BaseURL = m.Config.Deepgram.BaseURL
		}
		s.LogOutput = m.Stdout
		return s, nil

	case "polly":
		s := aws.NewSpeechService()
		s.Session = session
		if m.Config.Speech.Voice != "" {
			s.VoiceID = m.Config.Speech.Voice
		}
		s.LogOutput = m.Stdout
		return s, nil

	default:
		return nil, fmt.Errorf("unknown speech provider: %q", m.Config.Speech.Provider)
	}
}

// DefaultConfigPath is the default configuration path.
const DefaultConfigPath = "~/.tts-server/config"

// Config represents a configuration file.
type Config struct {
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`

	HTTP struct {
		Addr           string `toml:"addr"`
		Host           string `toml:"host"`
		Autocert       bool   `toml:"autocert"`
		MaxUploadBytes int64  `toml:"max-upload-bytes"`
	} `toml:"http"`

	Auth struct {
		URL    string `toml:"url"`
		APIKey string `toml:"api-key"`
	} `toml:"auth"`

	Speech struct {
		Provider string `toml:"provider"`
		Voice    string `toml:"voice"`
	} `toml:"speech"`

	Deepgram struct {
		APIKey  string `toml:"api-key"`
		BaseURL string `toml:"base-url"`
	} `toml:"deepgram"`

	AWS struct {
		AccessKeyID     string `toml:"access-key-id"`
		SecretAccessKey string `toml:"secret-access-key"`
		Region          string `toml:"region"`
	} `toml:"aws"`

	Storage struct {
		Bucket        string `toml:"bucket"`
		Endpoint      string `toml:"endpoint"`
		PublicBaseURL string `toml:"public-base-url"`
	} `toml:"storage"`
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	var c Config
	c.Database.Path = "~/.tts-server/db"
	c.HTTP.Addr = ":5000"
	c.Speech.Provider = "deepgram"
	c.Storage.Bucket = aws.DefaultBucket
	return c
}

// InterpolatePaths replaces the tilde prefix with the user's home directory.
func InterpolatePaths(a ...*string) error {
	for _, s := range a {
		if !strings.HasPrefix(*s, "~/") {
			continue
		}

		u, err := user.Current()
		if err != nil {
			return err
		} else if u.HomeDir == "" {
			return errors.New("home directory not found")
		}
		*s = filepath.Join(u.HomeDir, strings.TrimPrefix(*s, "~/"))
	}
	return nil
}
