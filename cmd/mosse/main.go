package main

import (
	"flag"
	"log"

	"github.com/LdDl/mosse-go/mosse"
	"gocv.io/x/gocv"
)

const windowName = "mosse_tracker"

func main() {
	var videoFile string
	var width int
	var configPath string
	var plotPath string
	flag.StringVar(&videoFile, "f", "", "Path to video file. If not specified, camera 0 is used.")
	flag.IntVar(&width, "w", 500, "Width of displayed video. Frames are resized keeping aspect ratio; 0 disables resizing.")
	flag.StringVar(&configPath, "config", "", "Path to JSON tracker config. Defaults are used if empty.")
	flag.StringVar(&plotPath, "plot", "", "Write PSR history chart to this file on exit (png, svg or pdf).")
	flag.Parse()

	cfg := mosse.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = mosse.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("load config %q: %v", configPath, err)
		}
	}

	var capture *gocv.VideoCapture
	var err error
	if videoFile != "" {
		capture, err = gocv.VideoCaptureFile(videoFile)
	} else {
		capture, err = gocv.VideoCaptureDevice(0)
	}
	if err != nil {
		log.Fatalf("open video source: %v", err)
	}
	defer capture.Close()

	window := gocv.NewWindow(windowName)
	defer window.Close()

	log.Printf("Keys: s - select object, space - pause, r - reset targets, q - quit")
	sup := newSupervisor(cfg, width)
	if err := sup.run(capture, window); err != nil {
		log.Printf("tracking stopped: %v", err)
	}

	if plotPath != "" {
		if err := sup.recorder.Save(plotPath); err != nil {
			log.Printf("save PSR chart: %v", err)
		} else {
			log.Printf("PSR chart written to %s", plotPath)
		}
	}
}
