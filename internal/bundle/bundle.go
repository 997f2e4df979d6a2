// Package bundle implements the `.yapp` application-bundle container: a
// packaged program plus the metadata an external host (a desktop shell,
// a web UI) needs to offer it without embedding a yasniy toolchain of
// its own.
package bundle

import (
	"encoding/binary"
	"encoding/json"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/schema"
)

const (
	yappMagic = "YASNYAP1"

	// VersionLegacy bundles carry no UI-asset block; VersionCurrent
	// bundles always do (possibly empty).
	VersionLegacy  = 1
	VersionCurrent = 2
)

// Metadata is a bundle's descriptive header, independent of its
// bytecode payload.
type Metadata struct {
	Name        string            `json:"name"`
	Version     int               `json:"version"`
	DisplayName string            `json:"displayName,omitempty"`
	Description string            `json:"description,omitempty"`
	AppVersion  string            `json:"appVersion,omitempty"`
	Publisher   string            `json:"publisher,omitempty"`
	Schema      []schema.Function `json:"schema,omitempty"`
}

// AppBundle is a fully decoded `.yapp` file: metadata, the compiled
// program, and an optional opaque UI-asset archive (a ZIP, left as raw
// bytes — this package has no reason to look inside it).
type AppBundle struct {
	Metadata Metadata
	Program  *bytecode.ProgramBC
	UIAssets []byte // nil for version 1, possibly empty for version 2
}

// Pack encodes an AppBundle to its `.yapp` byte layout: 8-byte magic,
// then three length-prefixed (4-byte LE) blobs — metadata JSON,
// bytecode JSON, UI-asset bytes. Version 1 omits the UI-asset blob
// entirely (not merely empty-length) so pack(unpack(b)) stays
// byte-exact for legacy bundles that never had one.
func Pack(b *AppBundle) ([]byte, error) {
	metaJSON, err := json.Marshal(b.Metadata)
	if err != nil {
		return nil, errors.FormatError("", "encoding bundle metadata: "+err.Error(), err)
	}
	bcBytes, err := bytecode.Encode(b.Program)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(yappMagic)+4+len(metaJSON)+4+len(bcBytes)+4+len(b.UIAssets))
	out = append(out, yappMagic...)
	out = appendLenPrefixed(out, metaJSON)
	out = appendLenPrefixed(out, bcBytes)
	if b.Metadata.Version >= VersionCurrent {
		out = appendLenPrefixed(out, b.UIAssets)
	}
	return out, nil
}

func appendLenPrefixed(dst []byte, payload []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, payload...)
}

// Unpack decodes a `.yapp` byte stream back into an AppBundle,
// accepting both version 1 (no UI-asset block) and version 2.
func Unpack(data []byte) (*AppBundle, error) {
	if len(data) < len(yappMagic) || string(data[:len(yappMagic)]) != yappMagic {
		return nil, errors.FormatError("", "not a yasniy application bundle: bad magic", nil)
	}
	rest := data[len(yappMagic):]

	metaJSON, rest, err := readLenPrefixed(rest)
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, errors.FormatError("", "decoding bundle metadata: "+err.Error(), err)
	}

	bcBytes, rest, err := readLenPrefixed(rest)
	if err != nil {
		return nil, err
	}
	prog, err := bytecode.Decode(bcBytes)
	if err != nil {
		return nil, err
	}

	var uiAssets []byte
	if meta.Version >= VersionCurrent {
		uiAssets, _, err = readLenPrefixed(rest)
		if err != nil {
			return nil, err
		}
	}

	return &AppBundle{Metadata: meta, Program: prog, UIAssets: uiAssets}, nil
}

func readLenPrefixed(data []byte) (payload, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, errors.FormatError("", "truncated bundle: missing length prefix", nil)
	}
	n := binary.LittleEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(n) {
		return nil, nil, errors.FormatError("", "truncated bundle: payload shorter than declared length", nil)
	}
	return data[:n], data[n:], nil
}
