//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

const usage = `inkview replays a proof run in a window and needs the ebiten build tag:

  go build -tags ebiten ./cmd/inkview
  inkview --user Alice [--password PW] [-W 100] [-H 100] [-s 500] [--scale 4] [--tps 30]

Without --password the password comes from $INKVERIFY_PASSWORD or a prompt.
Keys: space pause, N single step, R reset, H toggle status, Q quit.

For a headless proof use: inkverify prove <username> [password] [width] [height] [steps]
`

func main() {
	fmt.Fprint(os.Stderr, usage)
	os.Exit(2)
}
