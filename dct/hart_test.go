package dct

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/dma"
	"github.com/ezrec/mcacc/pe"
)

const (
	MEM_BASE     = 0x00000000
	MEM_SIZE     = 0x10000
	SCRATCH_BASE = 0x8000
	PE_BASE      = 0x03000000
	PE_STRIDE    = 0x00100000
	DMA_BASE     = 0x70000000
)

// newHarts builds a system with one accelerator per hart.
func newHarts(t *testing.T, workers int, direct bool) (harts []*Hart) {
	system := &bus.Bus{}
	engine := dma.NewDMA(system)

	require.NoError(t, system.Map("MEM", MEM_BASE, MEM_BASE+MEM_SIZE-1, bus.NewMemory(MEM_SIZE)))
	require.NoError(t, system.Map("DMA", DMA_BASE, DMA_BASE+0xfff, engine))

	for w := range workers {
		base := uint64(PE_BASE + w*PE_STRIDE)
		name := fmt.Sprintf("PE%d", w+1)
		require.NoError(t, system.Map(name, base, base+PE_STRIDE-1, pe.NewPE(name)))

		harts = append(harts, &Hart{
			Id:      w,
			Bus:     system,
			PE:      base,
			Scratch: uint64(SCRATCH_BASE + w*0x10),
			Transfer: &dma.Transfer{
				Bus:    system,
				Base:   DMA_BASE,
				Direct: direct,
			},
		})
	}

	return
}

func writeInput(t *testing.T, content string) (path string) {
	path = filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return
}

func runHarts(harts []*Hart, shared *Shared) error {
	var group errgroup.Group
	for _, hart := range harts {
		group.Go(func() error {
			return hart.Run(shared)
		})
	}
	return group.Wait()
}

func TestHart_Run(t *testing.T) {
	table := []struct {
		name    string
		workers int
		direct  bool
		input   string
	}{
		{"dma", 2, false, "1 4\n1 2 3 4\n"},
		{"direct", 2, true, "1 4\n1 2 3 4\n"},
		{"single", 1, false, "1 4\n1 2 3 4\n"},
		{"rows", 2, false, "3 5\n0.5 -1 0.25 1 0\n1 1 1 1 1\n-0.75 0.5 0 -0.5 0.75\n"},
		{"odd", 3, true, "2 5\n1 0 -1 0 1\n0.125 0.25 0.5 0.75 1\n"},
	}

	approx := cmpopts.EquateApprox(0, 0.1)
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			input := writeInput(t, entry.input)
			output := filepath.Join(t.TempDir(), "output.txt")

			var console bytes.Buffer
			shared := NewShared(entry.workers, input, output)
			shared.Console = &console

			err := runHarts(newHarts(t, entry.workers, entry.direct), shared)
			require.NoError(t, err)

			mat, err := LoadMatrix(input)
			require.NoError(t, err)
			expected := Reference(mat)

			if diff := cmp.Diff(expected, shared.Result(), approx); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}

			written, err := LoadMatrix(output)
			assert.NoError(err)
			assert.Equal(shared.Result(), written)

			var lines []string
			for w := range entry.workers {
				lines = append(lines, fmt.Sprintf("core%d is finished\n", w))
			}
			assert.Equal(strings.Join(lines, ""), console.String())
		})
	}
}

func TestHart_OutputFormat(t *testing.T) {
	assert := assert.New(t)

	output := filepath.Join(t.TempDir(), "output.txt")
	shared := NewShared(2, writeInput(t, "1 4\n1 2 3 4\n"), output)
	shared.Console = &bytes.Buffer{}

	require.NoError(t, runHarts(newHarts(t, 2, false), shared))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if assert.Len(lines, 1) {
		fields := strings.Split(lines[0], " ")
		assert.Len(fields, 4)
		assert.False(strings.HasSuffix(lines[0], " "))
	}
}

func TestHart_SetupError(t *testing.T) {
	assert := assert.New(t)

	var console bytes.Buffer
	shared := NewShared(2, filepath.Join(t.TempDir(), "missing.txt"), "")
	shared.Console = &console

	harts := newHarts(t, 2, false)
	errs := make([]error, len(harts))

	var group errgroup.Group
	for n, hart := range harts {
		group.Go(func() error {
			errs[n] = hart.Run(shared)
			return nil
		})
	}
	assert.NoError(group.Wait())

	for n, err := range errs {
		assert.ErrorIs(err, ErrSetup, "hart %d", n)
		assert.ErrorIs(err, os.ErrNotExist, "hart %d", n)
	}
	assert.Empty(console.String())
}

func TestHart_MalformedInput(t *testing.T) {
	assert := assert.New(t)

	shared := NewShared(2, writeInput(t, "2 2\n1 2 3"), "")
	shared.Console = &bytes.Buffer{}

	err := runHarts(newHarts(t, 2, true), shared)
	assert.ErrorIs(err, ErrSetup)
	assert.ErrorIs(err, ErrMatrixShort)
}

func TestHart_BadId(t *testing.T) {
	assert := assert.New(t)

	shared := NewShared(2, "", "")
	hart := &Hart{Id: 2}

	err := hart.Run(shared)
	assert.ErrorIs(err, ErrHartId)

	var herr *ErrHart
	if assert.ErrorAs(err, &herr) {
		assert.Equal(2, herr.Id)
	}
}

func TestHart_BusError(t *testing.T) {
	assert := assert.New(t)

	var console bytes.Buffer
	shared := NewShared(2, writeInput(t, "1 2\n1 1\n"), "")
	shared.Console = &console

	harts := newHarts(t, 2, true)
	harts[1].Scratch = 0x01000000

	err := runHarts(harts, shared)
	assert.ErrorIs(err, bus.ErrAddress)

	// The failing hart still lets every hart finish.
	assert.Equal("core0 is finished\ncore1 is finished\n", console.String())
}
