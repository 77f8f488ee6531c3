package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/pcm"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/player"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/player/speaker"
	"github.com/NU-CEM/singing-materials-online/pkg/storage"
)

const defaultPlayer = "speaker"

// playerEnv carries what player constructors need and collects
// resources to release once playback is over.
type playerEnv struct {
	ctx       context.Context
	outputDir string
	wavName   string
	ids       []string
	logger    *slog.Logger

	store   storage.FileStore
	speaker *speaker.Speaker
	closers []func() error
}

// openStore opens the output directory on first use.
func (e *playerEnv) openStore() (storage.FileStore, error) {
	if e.store != nil {
		return e.store, nil
	}
	fs, err := storage.Open(e.ctx, e.outputDir)
	if err != nil {
		return nil, err
	}
	e.store = fs
	return fs, nil
}

// wavPath names the WAV file for one material. A --wav name is used as is
// for a single material and suffixed with the id otherwise.
func (e *playerEnv) wavPath(id string) string {
	if e.wavName == "" {
		return id + ".wav"
	}
	if len(e.ids) <= 1 {
		return e.wavName
	}
	ext := path.Ext(e.wavName)
	return strings.TrimSuffix(e.wavName, ext) + "-" + id + ext
}

func (e *playerEnv) Close() error {
	var errs []error
	for _, c := range slices.Backward(e.closers) {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// playerFactory returns the player for one material id.
type playerFactory func(e *playerEnv, id string) (player.Player, error)

var players = map[string]playerFactory{
	"speaker": newSpeakerPlayer,
	"wav":     newWAVPlayer,
	"pcm":     newPCMPlayer,
}

func playerNames() string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func lookupPlayer(name string) (playerFactory, error) {
	if name == "" {
		name = defaultPlayer
	}
	f, ok := players[name]
	if !ok {
		return nil, fmt.Errorf("unknown player %q (available: %s)", name, playerNames())
	}
	return f, nil
}

func newSpeakerPlayer(e *playerEnv, _ string) (player.Player, error) {
	if e.speaker == nil {
		e.speaker = speaker.New(player.DefaultBlockSize, e.logger)
		e.closers = append(e.closers, e.speaker.Close)
	}
	return e.speaker, nil
}

func newWAVPlayer(e *playerEnv, id string) (player.Player, error) {
	fs, err := e.openStore()
	if err != nil {
		return nil, err
	}
	w := player.NewWAV(fs, e.wavPath(id), e.logger)
	if l, ok := fs.(*storage.Local); ok {
		printVerbose("Writing %s", l.Path(w.Path()))
	}
	return w, nil
}

// newPCMPlayer streams raw 16-bit stereo little-endian PCM to stdout.
func newPCMPlayer(_ *playerEnv, _ string) (player.Player, error) {
	return player.NewStream(pcm.ChunkWriter(os.Stdout)), nil
}
