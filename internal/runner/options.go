package runner

import (
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/projectdiscovery/hostwatch/pkg/version"
)

var au *aurora.Aurora

var (
	NotifyKeyEnv     = envutil.GetEnvOrDefault("HOSTWATCH_NOTIFY_KEY", "")
	NotifyDeviceEnv  = envutil.GetEnvOrDefault("HOSTWATCH_NOTIFY_DEVICE", "")
	NotifyChannelEnv = envutil.GetEnvOrDefault("HOSTWATCH_NOTIFY_CHANNEL", "")
)

// Options contains the configuration options for the presence monitor.
type Options struct {
	ConfigFile string

	TargetIP       string
	TargetMAC      string
	TargetHostname string

	Strategy     string
	Interval     int
	ProbeTimeout int
	Concurrency  int

	OnChangeOnly        bool
	NotifyInitialAbsent bool

	NotifyURL      string
	NotifyKey      string
	NotifyDevice   string
	NotifyChannel  string
	NotifyCooldown int
	SilentNotify   bool

	Verbose bool
	Silent  bool
	NoColor bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`hostwatch monitors a single known host on the local network segment and pushes a notification whenever its presence changes`)

	flagSet.CreateGroup("target", "Target",
		flagSet.StringVar(&options.TargetIP, "ip", "", "target ip address (also selects the /24 sweep range)"),
		flagSet.StringVar(&options.TargetMAC, "mac", "", "target hardware address (any case, colon or dash delimited)"),
		flagSet.StringVarP(&options.TargetHostname, "hostname", "hn", "", "target hostname to look for in probe replies"),
	)

	flagSet.CreateGroup("scan", "Scan",
		flagSet.StringVarP(&options.Strategy, "strategy", "s", "ip", "presence strategy (ip, mac, hostname)"),
		flagSet.IntVarP(&options.Interval, "interval", "n", 1, "seconds to sleep between polls"),
		flagSet.IntVarP(&options.ProbeTimeout, "probe-timeout", "pt", 100, "per-probe reply timeout in milliseconds"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", 254, "number of concurrent probes per sweep"),
	)

	flagSet.CreateGroup("notify", "Notify",
		flagSet.StringVarP(&options.NotifyURL, "notify-url", "nu", "", "push endpoint url (defaults to pushbullet)"),
		flagSet.StringVarP(&options.NotifyKey, "notify-key", "nk", NotifyKeyEnv, "push endpoint api key"),
		flagSet.StringVarP(&options.NotifyDevice, "device", "d", NotifyDeviceEnv, "device iden to push to (optional)"),
		flagSet.StringVarP(&options.NotifyChannel, "channel", "ch", NotifyChannelEnv, "channel tag to push to (optional)"),
		flagSet.IntVarP(&options.NotifyCooldown, "notify-cooldown", "ncd", 30, "seconds to suppress duplicate notifications"),
		flagSet.BoolVarP(&options.SilentNotify, "silent-notify", "sn", false, "log notifications instead of pushing them"),
		flagSet.BoolVarP(&options.OnChangeOnly, "on-change-only", "oc", false, "notify only on presence changes instead of every poll"),
		flagSet.BoolVarP(&options.NotifyInitialAbsent, "notify-initial-absent", "nia", false, "in change-only mode, also notify when the target is absent on the first poll"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", "", "yaml configuration file"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if options.ConfigFile != "" {
		if err := options.loadConfigFrom(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("could not load config file %s: %s\n", options.ConfigFile, err)
		}
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) loadConfigFrom(location string) error {
	return fileutil.Unmarshal(fileutil.YAML, []byte(location), options)
}
