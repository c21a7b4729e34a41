//go:build ebiten

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"inkverify/internal/app"
	"inkverify/internal/credentials"
	"inkverify/pkg/proof"
)

func main() {
	defer memguard.Purge()
	var (
		username string
		password string
		width    = pflag.IntP("width", "W", 100, "grid width")
		height   = pflag.IntP("height", "H", 100, "grid height")
		steps    = pflag.IntP("steps", "s", proof.DefaultSteps, "pause after this many steps (-1 to run forever)")
		scale    = pflag.Int("scale", 4, "pixels per cell")
		tps      = pflag.Int("tps", 30, "generations per second")
	)
	pflag.StringVarP(&username, "user", "u", "", "username")
	pflag.StringVarP(&password, "password", "p", "", "password (default: $INKVERIFY_PASSWORD or prompt)")
	pflag.Parse()

	if username == "" {
		log.Fatal("--user is required")
	}
	src := credentials.Source{Getenv: os.Getenv, In: os.Stdin, Out: os.Stderr}
	if pflag.CommandLine.Changed("password") {
		src.Arg = &password
	}
	secret, err := credentials.Resolve(username, src)
	if err != nil {
		log.Fatal(err)
	}
	defer secret.Destroy()

	viewer, err := app.NewViewer(secret.Credentials(), *width, *height, *steps)
	if err != nil {
		log.Fatal(err)
	}
	game, err := app.New(viewer, *scale)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle(fmt.Sprintf("inkview - %s %dx%d", username, *width, *height))
	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(game.Layout(0, 0))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
