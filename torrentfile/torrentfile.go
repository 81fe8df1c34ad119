package torrentfile

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Squwid/squidcodec/bencode"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidAnnounceURL is returned when announce is not UTF-8 text or is
	// not an absolute URL. Announces without a scheme are rejected.
	ErrInvalidAnnounceURL   = errors.New("invalid announce url")
	ErrInvalidPieceLength   = errors.New("piece length must be positive")
	ErrMalformedPieceHashes = errors.New("pieces length is not a multiple of the hash size")
	ErrAmbiguousLayout      = errors.New("info must have exactly one of length or files")
	ErrInvalidField         = errors.New("invalid torrent field")
	ErrInvalidFilePath      = errors.New("invalid file path")
	errPieceOutOfRange      = errors.New("piece index out of range")
)

// HashSize is the size of a piece hash and of the info hash
const HashSize = sha1.Size

// TorrentFile is the typed view of a decoded .torrent file
type TorrentFile struct {
	Announce     string
	AnnounceList [][]string
	URLList      []string
	Comment      string
	CreatedBy    string
	CreationDate int64
	Info         TorrentInfo
}

// TorrentInfo is the info dictionary of a torrent. Exactly one of Length and
// Files is meaningful, see IsMultiFile.
type TorrentInfo struct {
	Name        string
	InfoHash    [HashSize]byte
	PieceLength int64
	Pieces      []byte // concatenated sha1 hashes, one per piece
	Length      int64  // Single File Mode
	Files       []File // Multiple File Mode
	Private     bool

	multiFile bool
}

// File is one entry of a multi file torrent
type File struct {
	Length int64
	Path   []string
}

// Loader turns bytes or files into a TorrentFile. The zero value decodes with default limits.
type Loader struct {
	Decoder bencode.Decoder
	Log     *logrus.Entry
}

// Parse decodes data, which must hold exactly one dictionary, and maps it to a TorrentFile
func Parse(data []byte) (*TorrentFile, error) {
	var l Loader
	return l.Parse(data)
}

// Open reads and parses the torrent file at path
func Open(path string) (*TorrentFile, error) {
	var l Loader
	return l.Open(path)
}

// Parse decodes data, which must hold exactly one dictionary, and maps it to a TorrentFile
func (l *Loader) Parse(data []byte) (*TorrentFile, error) {
	v, err := l.Decoder.DecodeExact(data)
	if err != nil {
		return nil, fmt.Errorf("decoding torrent: %w", err)
	}
	return FromValue(v)
}

// Open reads and parses the torrent file at path
func (l *Loader) Open(path string) (*TorrentFile, error) {
	log := l.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("Path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.WithField("Bytes", len(data)).Debugf("Read torrent file")

	tf, err := l.Parse(data)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"Name":     tf.Info.Name,
		"InfoHash": tf.Info.InfoHashHex(),
		"Pieces":   tf.Info.NumPieces(),
	}).Debugf("Parsed torrent file")
	return tf, nil
}

// FromValue maps a decoded metainfo dictionary to a TorrentFile and computes its info hash
func FromValue(v bencode.Value) (*TorrentFile, error) {
	root, ok := v.(bencode.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: top level is a %v, expected dictionary", ErrInvalidField, kindOf(v))
	}

	var tf TorrentFile

	announce, err := requireField[bencode.Bytes](root, "announce")
	if err != nil {
		return nil, err
	}
	if tf.Announce, err = parseAnnounce(announce); err != nil {
		return nil, err
	}

	info, err := requireField[bencode.Dict](root, "info")
	if err != nil {
		return nil, err
	}
	ti, err := toTorrentInfo(info)
	if err != nil {
		return nil, err
	}
	tf.Info = *ti

	if err := tf.parseOptional(root); err != nil {
		return nil, err
	}
	return &tf, nil
}

// InfoHash computes the sha1 of the canonical encoding of info. The hash is
// never taken over the original bytes, which may not be canonical.
func InfoHash(info bencode.Value) ([HashSize]byte, error) {
	bs, err := bencode.Encode(info)
	if err != nil {
		return [HashSize]byte{}, err
	}
	return sha1.Sum(bs), nil
}

func parseAnnounce(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrInvalidAnnounceURL)
	}
	s := string(b)
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAnnounceURL, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q has no scheme", ErrInvalidAnnounceURL, s)
	}
	return s, nil
}

func (tf *TorrentFile) parseOptional(root bencode.Dict) error {
	var err error

	if tf.Comment, _, err = textField(root, "comment"); err != nil {
		return err
	}
	if tf.CreatedBy, _, err = textField(root, "created by"); err != nil {
		return err
	}

	date, _, err := field[bencode.Int](root, "creation date")
	if err != nil {
		return err
	}
	tf.CreationDate = int64(date)

	tiers, _, err := field[bencode.List](root, "announce-list")
	if err != nil {
		return err
	}
	for i, tier := range tiers {
		l, ok := tier.(bencode.List)
		if !ok {
			return fmt.Errorf("%w: announce-list[%d] is a %v, expected list", ErrInvalidField, i, kindOf(tier))
		}
		urls, err := stringList(l, fmt.Sprintf("announce-list[%d]", i))
		if err != nil {
			return err
		}
		if len(urls) > 0 {
			tf.AnnounceList = append(tf.AnnounceList, urls)
		}
	}

	// url-list is either a single url or a list of them
	switch ul := root["url-list"].(type) {
	case nil:
	case bencode.Bytes:
		if len(ul) > 0 {
			tf.URLList = []string{string(ul)}
		}
	case bencode.List:
		if tf.URLList, err = stringList(ul, "url-list"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: \"url-list\" is a %v, expected list", ErrInvalidField, ul.Kind())
	}
	return nil
}

// toTorrentInfo validates the info dictionary and hashes its canonical encoding
func toTorrentInfo(info bencode.Dict) (*TorrentInfo, error) {
	name, err := requireText(info, "name")
	if err != nil {
		return nil, err
	}

	pieceLength, err := requireField[bencode.Int](info, "piece length")
	if err != nil {
		return nil, err
	}
	if pieceLength <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPieceLength, pieceLength)
	}

	pieces, err := requireField[bencode.Bytes](info, "pieces")
	if err != nil {
		return nil, err
	}
	if len(pieces)%HashSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedPieceHashes, len(pieces))
	}

	ti := TorrentInfo{
		Name:        name,
		PieceLength: int64(pieceLength),
		Pieces:      pieces,
	}

	length, hasLength, err := field[bencode.Int](info, "length")
	if err != nil {
		return nil, err
	}
	files, hasFiles, err := field[bencode.List](info, "files")
	if err != nil {
		return nil, err
	}
	if hasLength == hasFiles {
		return nil, ErrAmbiguousLayout
	}

	if hasLength {
		if length < 0 {
			return nil, fmt.Errorf("%w: negative length %d", ErrInvalidField, length)
		}
		ti.Length = int64(length)
	} else {
		if ti.Files, err = parseFiles(files); err != nil {
			return nil, err
		}
		ti.multiFile = true
	}

	private, _, err := field[bencode.Int](info, "private")
	if err != nil {
		return nil, err
	}
	ti.Private = private != 0

	if ti.InfoHash, err = InfoHash(info); err != nil {
		return nil, err
	}
	return &ti, nil
}

func parseFiles(files bencode.List) ([]File, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: files is empty", ErrInvalidField)
	}

	var total int64
	out := make([]File, len(files))
	for i, f := range files {
		fd, ok := f.(bencode.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: files[%d] is a %v, expected dictionary", ErrInvalidField, i, kindOf(f))
		}

		length, err := requireField[bencode.Int](fd, "length")
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}
		if length < 0 {
			return nil, fmt.Errorf("%w: files[%d] has negative length %d", ErrInvalidField, i, length)
		}
		if total > math.MaxInt64-int64(length) {
			return nil, fmt.Errorf("%w: total length overflows at files[%d]", ErrInvalidField, i)
		}
		total += int64(length)

		pathList, err := requireField[bencode.List](fd, "path")
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}
		path, err := stringList(pathList, fmt.Sprintf("files[%d].path", i))
		if err != nil {
			return nil, err
		}
		if len(path) == 0 {
			return nil, fmt.Errorf("%w: files[%d] has an empty path", ErrInvalidFilePath, i)
		}
		// No .. allowed in file names
		for _, p := range path {
			if p == "" || strings.TrimSpace(p) == ".." || strings.ContainsRune(p, '/') {
				return nil, fmt.Errorf("%w: files[%d] component %q", ErrInvalidFilePath, i, p)
			}
		}

		out[i] = File{Length: int64(length), Path: path}
	}
	return out, nil
}

// IsMultiFile reports whether the torrent uses the files layout
func (ti TorrentInfo) IsMultiFile() bool {
	return ti.multiFile
}

// TotalLength is the size of all content described by the torrent
func (ti TorrentInfo) TotalLength() int64 {
	if !ti.multiFile {
		return ti.Length
	}
	var total int64
	for _, f := range ti.Files {
		total += f.Length
	}
	return total
}

// NumPieces is the number of piece hashes
func (ti TorrentInfo) NumPieces() int {
	return len(ti.Pieces) / HashSize
}

// PieceHash returns the hash of the piece at index
func (ti TorrentInfo) PieceHash(index int) ([HashSize]byte, error) {
	var h [HashSize]byte
	if index < 0 || index >= ti.NumPieces() {
		return h, fmt.Errorf("%w: %d of %d", errPieceOutOfRange, index, ti.NumPieces())
	}
	copy(h[:], ti.Pieces[index*HashSize:])
	return h, nil
}

// PieceHashes splits Pieces into one hash per piece
func (ti TorrentInfo) PieceHashes() [][HashSize]byte {
	hashes := make([][HashSize]byte, ti.NumPieces())
	for i := range hashes {
		copy(hashes[i][:], ti.Pieces[i*HashSize:])
	}
	return hashes
}

// PieceBounds gets the byte range of a piece. All pieces are PieceLength long except possibly the last
func (ti TorrentInfo) PieceBounds(index int) (begin int64, end int64, err error) {
	if index < 0 || index >= ti.NumPieces() {
		return 0, 0, fmt.Errorf("%w: %d of %d", errPieceOutOfRange, index, ti.NumPieces())
	}
	total := ti.TotalLength()
	begin = int64(index) * ti.PieceLength
	if begin >= total {
		return 0, 0, fmt.Errorf("%w: piece %d starts past the end of %d bytes", errPieceOutOfRange, index, total)
	}

	end = total
	if ti.PieceLength < total-begin {
		end = begin + ti.PieceLength
	}
	return begin, end, nil
}

// InfoHashHex is the info hash as lowercase hex
func (ti TorrentInfo) InfoHashHex() string {
	return hex.EncodeToString(ti.InfoHash[:])
}
