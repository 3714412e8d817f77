package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/NowakAdmin/ScaleReader/internal/version.Version=v1.2.0" ./cmd/scale-reader
var Version = "dev"
