package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"runtime"

	"github.com/metacubex/dhcping/component/dhcp"
	"github.com/metacubex/dhcping/config"
	C "github.com/metacubex/dhcping/constant"
	"github.com/metacubex/dhcping/log"
	"github.com/metacubex/dhcping/prober"

	"go.uber.org/automaxprocs/maxprocs"
)

var (
	version    bool
	configFile string
	mac        string
	server     string
	local      string
	interval   int
	tries      int
	wait       int
	verbose    bool
)

func init() {
	// exit code 2 is reserved for the no-reply outcome, so flag errors
	// must not use the flag package's default exit status
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	flag.BoolVar(&version, "version", false, "show current version of dhcping")
	flag.StringVar(&configFile, "f", "", "specify configuration file")
	flag.StringVar(&mac, "h", "", "client hardware address to probe with")
	flag.StringVar(&server, "s", "", "DHCP server address or hostname")
	flag.StringVar(&local, "l", "", "local address to bind")
	flag.IntVar(&interval, "i", config.IntervalDefault, "seconds between retransmissions")
	flag.IntVar(&tries, "t", config.TriesDefault, "number of packets to send")
	flag.IntVar(&wait, "w", config.WaitDefault, "maximum seconds to wait for a reply")
	flag.BoolVar(&verbose, "v", false, "log a diagnostic when the wait elapses")
}

func main() {
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	if version {
		fmt.Printf("dhcping %s %s %s with %s %s\n",
			C.Version, runtime.GOOS, runtime.GOARCH, runtime.Version(), C.BuildTime)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Errorln("%s", err.Error())
		os.Exit(1)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	conn, err := dhcp.Dial(ctx, cfg.Local, cfg.Server)
	if err != nil {
		log.Errorln("%s", err.Error())
		os.Exit(1)
	}
	defer conn.Close()
	log.Debugln("bound %s, probing %s", conn.LocalAddr(), conn.RemoteAddr())

	packet, err := dhcp.Discover(cfg.MAC, conn.LocalAddr().(*net.UDPAddr).IP)
	if err != nil {
		log.Errorln("%s", err.Error())
		os.Exit(1)
	}

	result, err := prober.New(conn, packet, prober.Options{
		Interval: cfg.Interval,
		Tries:    cfg.Tries,
		MaxWait:  cfg.Wait,
		Verbose:  cfg.Verbose,
	}).Run(ctx)
	if err != nil {
		log.Errorln("%s", err.Error())
		os.Exit(1)
	}
	os.Exit(result.ExitCode())
}

// loadConfig merges the optional configuration file with the command
// line; flags given explicitly win over file values.
func loadConfig() (*config.Config, error) {
	rawCfg := config.DefaultRawConfig()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		rawCfg, err = config.UnmarshalRawConfig(buf)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "h":
			rawCfg.MAC = mac
		case "s":
			rawCfg.Server = server
		case "l":
			rawCfg.Local = local
		case "i":
			rawCfg.Interval = interval
		case "t":
			rawCfg.Tries = tries
		case "w":
			rawCfg.Wait = wait
		case "v":
			rawCfg.Verbose = verbose
		}
	})

	return config.ParseRawConfig(rawCfg)
}
