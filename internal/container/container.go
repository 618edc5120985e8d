// Package container implements the two network file formats of spec.md
// §6: a length-prefixed structured binary format, and a human-readable
// bracket-text format with one network per line.
package container

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

// WriteBinary writes nets to w in the structured binary format: a
// network count, then per network its n, its layers (each a length-n
// matching array), and an optional output-word list.
func WriteBinary(w io.Writer, nets []*network.Network) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(nets))); err != nil {
		return errors.Wrap(err, "container: writing network count")
	}
	for _, net := range nets {
		if err := writeOneBinary(bw, net); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeOneBinary(w io.Writer, net *network.Network) error {
	if err := binary.Write(w, binary.LittleEndian, int32(net.N)); err != nil {
		return errors.Wrap(err, "container: writing n")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(net.Layers))); err != nil {
		return errors.Wrap(err, "container: writing layer count")
	}
	for _, l := range net.Layers {
		for _, m := range l.Matching {
			if err := binary.Write(w, binary.LittleEndian, int32(m)); err != nil {
				return errors.Wrap(err, "container: writing matching entry")
			}
		}
	}
	if net.OutputsValid() {
		outputs := net.Outputs()
		if err := binary.Write(w, binary.LittleEndian, int8(1)); err != nil {
			return errors.Wrap(err, "container: writing outputs flag")
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(outputs))); err != nil {
			return errors.Wrap(err, "container: writing output count")
		}
		for _, x := range outputs {
			if err := binary.Write(w, binary.LittleEndian, uint64(x)); err != nil {
				return errors.Wrap(err, "container: writing output word")
			}
		}
		return nil
	}
	return binary.Write(w, binary.LittleEndian, int8(0))
}

// ReadBinary reads nets written by WriteBinary. Any network missing a
// cached output set has it recomputed, in parallel across networks
// (spec.md §6: "outputs are recomputed in parallel at load time").
func ReadBinary(r io.Reader, workers int) ([]*network.Network, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "container: reading network count")
	}
	nets := make([]*network.Network, count)
	for i := range nets {
		net, err := readOneBinary(r)
		if err != nil {
			return nil, errors.Wrapf(err, "container: reading network %d", i)
		}
		nets[i] = net
	}

	workerpool.Run(workers, len(nets), func(i int) {
		if !nets[i].OutputsValid() {
			nets[i].Recompute()
		}
	})
	return nets, nil
}

func readOneBinary(r io.Reader) (*network.Network, error) {
	var n, numLayers int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(err, "reading n")
	}
	if err := binary.Read(r, binary.LittleEndian, &numLayers); err != nil {
		return nil, errors.Wrap(err, "reading layer count")
	}
	net := network.New(int(n))
	for l := int32(0); l < numLayers; l++ {
		net.AddEmptyLayer()
		layer := &net.Layers[len(net.Layers)-1]
		for i := int32(0); i < n; i++ {
			var m int32
			if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
				return nil, errors.Wrap(err, "reading matching entry")
			}
			layer.Matching[i] = int(m)
		}
	}
	var hasOutputs int8
	if err := binary.Read(r, binary.LittleEndian, &hasOutputs); err != nil {
		return nil, errors.Wrap(err, "reading outputs flag")
	}
	if hasOutputs != 0 {
		var count int32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, errors.Wrap(err, "reading output count")
		}
		outputs := make(bitword.Set, count)
		for i := range outputs {
			var w uint64
			if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
				return nil, errors.Wrap(err, "reading output word")
			}
			outputs[i] = bitword.Word(w)
		}
		net.SetOutputs(outputs)
	}
	return net, nil
}

// WriteBracket writes nets to w, one per line, in bracket-text notation.
func WriteBracket(w io.Writer, nets []*network.Network) error {
	bw := bufio.NewWriter(w)
	for _, net := range nets {
		if _, err := bw.WriteString(net.String() + "\n"); err != nil {
			return errors.Wrap(err, "container: writing bracket line")
		}
	}
	return bw.Flush()
}

// ReadBracket reads the bracket-text format of spec.md §6: one network
// per line on n wires (supplied by the caller, since the format carries
// no n prefix), skipping comment lines (leading "#") and blank lines.
// Outputs are recomputed in parallel across the parsed networks.
func ReadBracket(r io.Reader, n int, workers int) ([]*network.Network, error) {
	var nets []*network.Network
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		net, err := network.ParseBracket(n, line)
		if err != nil {
			return nil, err
		}
		nets = append(nets, net)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "container: scanning bracket file")
	}

	workerpool.Run(workers, len(nets), func(i int) {
		nets[i].Recompute()
	})
	return nets, nil
}

// Format names a container format a cmd/ tool was pointed at via a flag.
type Format string

const (
	FormatBinary  Format = "binary"
	FormatBracket Format = "bracket"
)

// ReadFile reads a network collection from path in the given format. n is
// only consulted for FormatBracket, which carries no width prefix of its
// own.
func ReadFile(path string, format Format, n, workers int) ([]*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "container: opening input file")
	}
	defer f.Close()

	switch format {
	case FormatBinary:
		return ReadBinary(f, workers)
	case FormatBracket:
		return ReadBracket(f, n, workers)
	default:
		return nil, errors.Errorf("container: unknown format %q", format)
	}
}

// WriteFile writes nets to path in the given format.
func WriteFile(path string, format Format, nets []*network.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "container: creating output file")
	}
	defer f.Close()

	switch format {
	case FormatBinary:
		return WriteBinary(f, nets)
	case FormatBracket:
		return WriteBracket(f, nets)
	default:
		return errors.Errorf("container: unknown format %q", format)
	}
}

// WritePermutations writes one permutation per line, space-separated, in
// the order spec.md §6 describes for the window-optimization permutation
// file.
func WritePermutations(path string, perms [][]int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "container: creating permutation file")
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, perm := range perms {
		for i, w := range perm {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(w))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadPermutations reads a permutation file written by WritePermutations.
func ReadPermutations(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "container: opening permutation file")
	}
	defer f.Close()

	var perms [][]int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		perm := make([]int, len(fields))
		for i, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "container: malformed permutation entry %q", tok)
			}
			perm[i] = v
		}
		perms = append(perms, perm)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "container: scanning permutation file")
	}
	return perms, nil
}
