package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"xl3ctl/internal/config"
	"xl3ctl/internal/device"
	"xl3ctl/internal/midiio"
	"xl3ctl/internal/mode"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
		inPort     = flag.String("in", "", "MIDI input port name")
		outPort    = flag.String("out", "", "MIDI output port name")
		auxPort    = flag.String("aux", "", "auxiliary control-surface output port name")
		list       = flag.Bool("list", false, "list MIDI ports and exit")
		readSlot   = flag.Int("read", -1, "read custom mode from slot")
		writeSlot  = flag.Int("write", -1, "write custom mode to slot")
		file       = flag.String("file", "", "JSON mode file to read from or write to")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "xl3ctl").Logger()
	log.Logger = logger

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *inPort != "" {
		cfg.InPort = *inPort
	}
	if *outPort != "" {
		cfg.OutPort = *outPort
	}
	if *auxPort != "" {
		cfg.AuxPort = *auxPort
	}

	manager := midiio.NewManager()
	defer manager.Close()

	if *list {
		fmt.Println("Input ports:")
		for _, name := range manager.ListInPorts() {
			fmt.Println("  ", name)
		}
		fmt.Println("Output ports:")
		for _, name := range manager.ListOutPorts() {
			fmt.Println("  ", name)
		}
		return
	}

	if *readSlot < 0 && *writeSlot < 0 {
		flag.Usage()
		os.Exit(2)
	}

	sess, err := connect(manager, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer sess.Close()
	log.Info().Str("serial", sess.Serial()).Msg("connected")

	ctx := context.Background()

	switch {
	case *readSlot >= 0:
		m, err := sess.ReadCustomMode(ctx, *readSlot)
		if err != nil {
			log.Fatal().Err(err).Int("slot", *readSlot).Msg("read failed")
		}
		if m.IsEmpty() {
			log.Info().Int("slot", *readSlot).Msg("slot is empty")
			return
		}
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("encode mode")
		}
		if *file == "" {
			fmt.Println(string(out))
			return
		}
		if err := os.WriteFile(*file, out, 0o644); err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("write mode file")
		}

	case *writeSlot >= 0:
		if *file == "" {
			log.Fatal().Msg("-write requires -file")
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("read mode file")
		}
		var m mode.CustomMode
		if err := json.Unmarshal(data, &m); err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("parse mode file")
		}
		if err := sess.WriteCustomMode(ctx, *writeSlot, &m); err != nil {
			log.Fatal().Err(err).Int("slot", *writeSlot).Msg("write failed")
		}
	}
}

func connect(manager *midiio.Manager, cfg config.Config, logger zerolog.Logger) (*device.Session, error) {
	in, err := manager.GetInPort(cfg.InPort)
	if err != nil {
		return nil, err
	}
	out, err := manager.GetOutPort(cfg.OutPort)
	if err != nil {
		return nil, err
	}
	tr, err := midiio.OpenTransport(in, out)
	if err != nil {
		return nil, err
	}

	opts := []device.Option{
		device.WithConfig(cfg.Session),
		device.WithLogger(logger),
	}
	if cfg.AuxPort != "" {
		auxOut, err := manager.GetOutPort(cfg.AuxPort)
		if err != nil {
			tr.Close()
			return nil, err
		}
		aux, err := midiio.OpenAuxPort(auxOut)
		if err != nil {
			tr.Close()
			return nil, err
		}
		opts = append(opts, device.WithAuxPort(aux))
	}

	sess, err := device.Dial(tr, opts...)
	if err != nil {
		tr.Close()
		return nil, err
	}
	return sess, nil
}
