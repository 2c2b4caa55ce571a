package server

import "context"

// Transcriber and ImageDescriber are the multimodal collaborators. The chat
// service does not implement speech or vision itself; deployments plug in
// their own implementations via WithTranscriber and WithImageDescriber.

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type ImageDescriber interface {
	DescribeImage(ctx context.Context, url string) (string, error)
}
