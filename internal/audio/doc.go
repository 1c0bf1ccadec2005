// Package audio plays synthesized speech on the local sound device. MP3 is
// decoded to 16-bit PCM by ffmpeg and played through oto/v3.
package audio
