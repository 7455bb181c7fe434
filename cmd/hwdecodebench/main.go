package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/logger"
	"github.com/xaionaro-go/hwdecoder/types"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	configPath := pflag.String("config", "", "path to a YAML config file")
	deviceTypeString := pflag.String("device", types.HardwareDeviceTypeVideoToolbox.String(), "the hardware device type to decode with")
	frames := pflag.Int("frames", 0, "the amount of pictures to decode")
	resolution := types.Resolution{}
	pflag.Var(&resolution, "resolution", "the picture size, e.g. 1920x1080")
	optimizedCopy := pflag.Bool("optimized-copy", false, "copy the decoded pictures into aligned host memory instead of referencing the hardware buffers")
	pixelFormatString := pflag.String("pixel-format", "", "the pixel format the hardware decodes into: 'y420' or '2vuy'")
	resizeEvery := pflag.Int("resize-every", 0, "alternate the picture size every N pictures (0 disables)")
	toAstiav := pflag.Bool("to-astiav", false, "convert every decoded picture to an astiav.Frame")
	pflag.Parse()
	if len(pflag.Args()) != 0 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	astiav.SetLogLevel(logger.LevelToAstiav(l.Level()))
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, fmt, msg string) {
		var cs string
		if c != nil {
			if cl := c.Class(); cl != nil {
				cs = " - class: " + cl.String()
			}
		}
		l.Logf(
			logger.LevelFromAstiav(level),
			"%s%s",
			strings.TrimSpace(msg), cs,
		)
	})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		l.Fatal(err)
	}
	if pflag.CommandLine.Changed("frames") {
		cfg.Frames = *frames
	}
	if pflag.CommandLine.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if pflag.CommandLine.Changed("optimized-copy") {
		cfg.Decoder.OptimizedCopy = *optimizedCopy
	}
	if pflag.CommandLine.Changed("resize-every") {
		cfg.ResizeEvery = *resizeEvery
	}
	if pflag.CommandLine.Changed("to-astiav") {
		cfg.ToAstiav = *toAstiav
	}
	if *pixelFormatString != "" {
		cfg.Decoder.PixelFormatType, err = accelerator.PixelFormatTypeFromString(*pixelFormatString)
		if err != nil {
			l.Fatal(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		l.Fatal(err)
	}

	deviceType := types.HardwareDeviceTypeFromString(*deviceTypeString)
	if deviceType < 0 {
		l.Fatalf("unknown hardware device type '%s'", *deviceTypeString)
	}

	stats, err := runBenchmark(ctx, deviceType, cfg)
	if err != nil {
		l.Fatal(err)
	}
	fmt.Println(stats)
}
