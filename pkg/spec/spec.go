package spec

import "time"

var (
	// StatusMessages rotate under the loading bar while the page boots.
	StatusMessages = []string{
		"LOADING NEURAL NETWORKS...",
		"SYNCING FRAME BUFFERS...",
		"ESTABLISHING LINK-NODE CONNECTION...",
		"DECODING MONOCHROME ASSETS...",
		"SYSTEM READY.",
	}

	// InteractionEvents is every event kind that counts as the first user gesture.
	InteractionEvents = []string{"click", "keydown", "touchstart", "mousedown", "mousemove"}
)

const (
	// === IDENTITY & VERSIONING ===
	AppName    = "LINKAMP"
	Version    = "1.0.4"
	SourceName = "SYSTEM_A1"

	// === LOADING SEQUENCE ===
	InitialStatus = "INITIALIZING SYSTEM..."
	ProgressMax   = 100
	ProgressTick  = 25 * time.Millisecond
	StatusTick    = 400 * time.Millisecond
	GraceDelay    = 800 * time.Millisecond

	// === VISUALIZER ===
	TransformSize     = 64 // 32 frequency bins
	MinTransformSize  = 32
	MaxTransformSize  = 32768
	BucketCount       = 8
	FrameInterval     = 16 * time.Millisecond
	DoubleClickWindow = 400 * time.Millisecond

	// Browser analyser defaults
	SmoothingTimeConstant = 0.8
	MinDecibels           = -100.0
	MaxDecibels           = -30.0

	// === ENGINE SPECS ===
	BackgroundVolume = 0.1
	SampleRate       = 48000
	Channels         = 2
	FrameSize        = 20  // ms per Opus frame
	FrameSamples     = 960 // FrameSize @ 48kHz
	MaxFrameSamples  = 5760

	// === FRAMED TRACKS ===
	TrackMagic       = "LAMPOPUS"
	SealedTrackMagic = "LAMPSEAL"
	Salt             = "LAMPSALT"
	KeyIterations    = 4096
	KeySize          = 32

	// === CONFIG ===
	ConfigEnv  = "LINKAMP_CONFIG"
	ConfigFile = ".linkamp.json"
)
