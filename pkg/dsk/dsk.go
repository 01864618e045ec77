// Package dsk parses CPCEMU disk images, both the standard "MV - CPCEMU"
// layout and the extended "EXTENDED CPC DSK" layout.
//
// A disk image starts with a 256-byte disc information block. Track blocks
// follow at offset 0x100, each made of a 256-byte track information block
// and the sector data.
package dsk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrFormat is returned for data that is not a well-formed disk image.
var ErrFormat = errors.New("dsk: bad disk image")

const (
	infoSize         = 0x100
	defaultTrackSize = 4864 // 0x100 header + 9 sectors of 512 bytes + padding
	sectorInfoOffset = 0x18
	sectorInfoSize   = 8
	trackSizeTable   = 0x34 // extended images: one high byte of size per track block
)

var (
	standardMagic = []byte("MV - CPCEMU")
	extendedMagic = []byte("EXTENDED CP")
	trackMagic    = []byte("Track-Info")
)

// Kind is the container layout.
type Kind int

const (
	Standard Kind = iota
	Extended
)

func (k Kind) String() string {
	if k == Extended {
		return "extended"
	}
	return "standard"
}

// Image is a parsed disk image.
type Image struct {
	Kind       Kind
	Creator    string
	TrackCount int // tracks per side
	SideCount  int
	TrackSize  int // standard layout only; extended images size each track
	Tracks     []Track
}

// Track is one track block. Unformatted tracks of an extended image are
// skipped, so Number is the authoritative cylinder.
type Track struct {
	Number     uint8
	Side       uint8
	SectorSize uint8 // N: bytes are 128 << N
	Gap3       uint8
	Filler     uint8
	Sectors    []Sector
	Data       []byte // all sector data in the order of Sectors
}

// Sector is a sector information entry together with its data.
type Sector struct {
	Track uint8 // C
	Side  uint8 // H
	ID    uint8 // R
	Size  uint8 // N
	ST1   uint8
	ST2   uint8
	Data  []byte
}

// SizeBytes returns the nominal sector length for a size code N.
func SizeBytes(n uint8) int {
	if n > 8 {
		n = 8
	}
	return 128 << n
}

// Load reads and parses the disk image at path.
func Load(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Parse decodes a disk image held in memory.
func Parse(b []byte) (*Image, error) {
	if len(b) < infoSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the disc information block", ErrFormat, len(b))
	}
	img := &Image{}
	switch {
	case bytes.HasPrefix(b, standardMagic):
		img.Kind = Standard
	case bytes.HasPrefix(b, extendedMagic):
		img.Kind = Extended
	default:
		return nil, fmt.Errorf("%w: unknown header %q", ErrFormat, b[:len(standardMagic)])
	}
	img.Creator = strings.TrimRight(string(b[0x22:0x30]), "\x00 ")
	img.TrackCount = int(b[0x30])
	img.SideCount = int(b[0x31])
	img.TrackSize = int(binary.LittleEndian.Uint16(b[0x32:0x34]))
	if img.TrackSize == 0 {
		img.TrackSize = defaultTrackSize
	}

	blocks := img.TrackCount * img.SideCount
	if img.Kind == Extended && blocks > infoSize-trackSizeTable {
		return nil, fmt.Errorf("%w: %d tracks x %d sides overflow the track size table",
			ErrFormat, img.TrackCount, img.SideCount)
	}

	off := infoSize
	for i := 0; i < blocks; i++ {
		size := img.TrackSize
		if img.Kind == Extended {
			size = int(b[trackSizeTable+i]) << 8
			if size == 0 {
				continue
			}
		}
		if off+size > len(b) {
			return nil, fmt.Errorf("%w: track block %d ends at %d, past the end of the image (%d bytes)",
				ErrFormat, i, off+size, len(b))
		}
		t, err := parseTrack(b[off:off+size], img.Kind)
		if err != nil {
			return nil, fmt.Errorf("track block %d: %w", i, err)
		}
		img.Tracks = append(img.Tracks, t)
		off += size
	}
	return img, nil
}

func parseTrack(b []byte, kind Kind) (Track, error) {
	if len(b) < infoSize || !bytes.HasPrefix(b, trackMagic) {
		return Track{}, fmt.Errorf("%w: missing track information block", ErrFormat)
	}
	t := Track{
		Number:     b[0x10],
		Side:       b[0x11],
		SectorSize: b[0x14],
		Gap3:       b[0x16],
		Filler:     b[0x17],
		Data:       b[infoSize:],
	}
	count := int(b[0x15])
	if sectorInfoOffset+count*sectorInfoSize > infoSize {
		return Track{}, fmt.Errorf("%w: %d sectors do not fit the track information block", ErrFormat, count)
	}

	data := 0
	t.Sectors = make([]Sector, count)
	for i := range t.Sectors {
		e := b[sectorInfoOffset+i*sectorInfoSize:]
		s := Sector{Track: e[0], Side: e[1], ID: e[2], Size: e[3], ST1: e[4], ST2: e[5]}
		n := SizeBytes(t.SectorSize)
		if kind == Extended {
			n = int(binary.LittleEndian.Uint16(e[6:8]))
		}
		if data+n > len(t.Data) {
			return Track{}, fmt.Errorf("%w: sector %02X overruns the track", ErrFormat, s.ID)
		}
		s.Data = t.Data[data : data+n]
		data += n
		t.Sectors[i] = s
	}
	return t, nil
}

// Sector returns the sector with the given ID.
func (t *Track) Sector(id uint8) (*Sector, bool) {
	for i := range t.Sectors {
		if t.Sectors[i].ID == id {
			return &t.Sectors[i], true
		}
	}
	return nil, false
}

// Track returns the track block for a cylinder and side.
func (img *Image) Track(number, side uint8) (*Track, bool) {
	for i := range img.Tracks {
		if img.Tracks[i].Number == number && img.Tracks[i].Side == side {
			return &img.Tracks[i], true
		}
	}
	return nil, false
}
