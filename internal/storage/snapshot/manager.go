package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Magic bytes identify snapshot files.
var magicBytes = []byte("FCABSNAP")

const (
	filePrefix    = "snapshot-"
	fileExtension = ".snap"
	checksumSize  = 32
	headerVersion = 1

	DefaultRetentionCount = 5
	DefaultRetentionDays  = 7
)

var (
	ErrInvalidMagic     = errors.New("snapshot: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	ErrNotFound         = domain.ErrSnapshotNotFound.WithDetails("no such archive")
	ErrNoSnapshots      = domain.ErrSnapshotNotFound.WithDetails("no snapshots available")
)

type archiveHeader struct {
	Version     int    `json:"version"`
	CreatedAt   int64  `json:"created_at"`
	TakenAt     int64  `json:"taken_at"`
	RecordCount int    `json:"record_count"`
	Encrypted   bool   `json:"encrypted"`
	Salt        []byte `json:"salt,omitempty"`
}

// archiveRecord keeps values as text so a damaged value rejects one
// record instead of the whole archive.
type archiveRecord struct {
	ID              int    `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	DateOfBirth     string `json:"date_of_birth"`
	Sex             string `json:"sex"`
	NumberOfReviews int    `json:"number_of_reviews"`
	Salary          string `json:"salary"`
}

func archiveRecordFromDomain(r domain.Record) archiveRecord {
	return archiveRecord{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		DateOfBirth:     domain.FormatDate(r.DateOfBirth),
		Sex:             string(r.Sex),
		NumberOfReviews: r.NumberOfReviews,
		Salary:          r.Salary.String(),
	}
}

func (a archiveRecord) toCandidate(pos int) domain.Candidate {
	c := domain.Candidate{ID: a.ID}
	fail := func(reason string) domain.Candidate {
		c.Err = &domain.StructuralError{Line: pos, Reason: reason}
		return c
	}

	dob, err := domain.ParseDate(a.DateOfBirth)
	if err != nil {
		return fail("invalid date of birth " + a.DateOfBirth)
	}
	sex, err := domain.ParseSex(a.Sex)
	if err != nil {
		return fail("invalid sex " + a.Sex)
	}
	salary, err := domain.ParseSalary(a.Salary)
	if err != nil {
		return fail("invalid salary " + a.Salary)
	}

	c.Fields = domain.Fields{
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		DateOfBirth:     dob,
		Sex:             sex,
		NumberOfReviews: a.NumberOfReviews,
		Salary:          salary,
	}
	return c
}

// Config configures the snapshot manager.
type Config struct {
	Dir string

	RetentionCount int
	RetentionDays  int

	// Passphrase enables encryption of new archives and is required to read
	// encrypted ones. Empty means plaintext.
	Passphrase []byte

	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns a plaintext configuration for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
		RetentionDays:  DefaultRetentionDays,
	}
}

// Manager writes, lists, loads and prunes snapshot archives.
type Manager struct {
	cfg Config
}

// NewManager creates the archive directory if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := ValidatePassphrase(cfg.Passphrase); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if cfg.RetentionCount == 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{cfg: cfg}, nil
}

// Info contains metadata about an archive.
type Info struct {
	ID          string `json:"id"`
	RecordCount int    `json:"record_count"`
	CreatedAt   int64  `json:"created_at"`
	TakenAt     int64  `json:"taken_at"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
	Checksum    string `json:"checksum,omitempty"`
	Encrypted   bool   `json:"encrypted"`
}

// Create writes snap to a new archive file.
func (m *Manager) Create(snap *domain.Snapshot) (*Info, error) {
	now := m.cfg.Now()
	id := m.generateID(now)
	records := snap.Records()

	hdr := archiveHeader{
		Version:     headerVersion,
		CreatedAt:   now.UnixMilli(),
		TakenAt:     snap.TakenAt().UnixMilli(),
		RecordCount: len(records),
	}

	var seal *sealer
	if len(m.cfg.Passphrase) > 0 {
		salt, err := NewSalt()
		if err != nil {
			return nil, err
		}
		if seal, err = newSealer(m.cfg.Passphrase, salt); err != nil {
			return nil, err
		}
		hdr.Encrypted = true
		hdr.Salt = salt
	}

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal header: %w", err)
	}

	encoded := make([]archiveRecord, 0, len(records))
	for _, r := range records {
		encoded = append(encoded, archiveRecordFromDomain(r))
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal records: %w", err)
	}
	if seal != nil {
		if data, err = seal.seal(data, hdrJSON); err != nil {
			return nil, err
		}
	}

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	sum, size, err := writeArchive(tempPath, hdrJSON, data)
	defer os.Remove(tempPath)
	if err != nil {
		return nil, err
	}

	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("snapshot: rename: %w", err)
	}

	return &Info{
		ID:          id,
		RecordCount: len(records),
		CreatedAt:   hdr.CreatedAt,
		TakenAt:     hdr.TakenAt,
		Size:        size,
		Path:        finalPath,
		Checksum:    hex.EncodeToString(sum),
		Encrypted:   hdr.Encrypted,
	}, nil
}

func writeArchive(path string, hdrJSON, data []byte) ([]byte, int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, 0, fmt.Errorf("snapshot: create temp file: %w", err)
	}

	hash := sha256.New()
	writer := io.MultiWriter(file, hash)

	var hdrLen, dataLen [4]byte
	binary.BigEndian.PutUint32(hdrLen[:], uint32(len(hdrJSON)))
	binary.BigEndian.PutUint32(dataLen[:], uint32(len(data)))

	for _, part := range [][]byte{magicBytes, hdrLen[:], hdrJSON, dataLen[:], data} {
		if _, err := writer.Write(part); err != nil {
			file.Close()
			return nil, 0, fmt.Errorf("snapshot: write: %w", err)
		}
	}

	// Checksum trailer is not part of the hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("snapshot: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("snapshot: sync: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, err
	}
	if err := file.Close(); err != nil {
		return nil, 0, fmt.Errorf("snapshot: close: %w", err)
	}
	return sum, stat.Size(), nil
}

// Load reads the latest valid archive.
// If the latest archive is corrupted, it falls back to older ones.
func (m *Manager) Load() ([]domain.Candidate, *Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, nil, err
	}
	if len(infos) == 0 {
		return nil, nil, ErrNoSnapshots
	}

	for i := len(infos) - 1; i >= 0; i-- {
		cands, info, err := m.loadFile(infos[i].Path)
		if err == nil {
			return cands, info, nil
		}
		if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidMagic) {
			continue
		}
		return nil, nil, err
	}

	return nil, nil, ErrNoSnapshots
}

// LoadID reads the archive with the given id.
func (m *Manager) LoadID(id string) ([]domain.Candidate, *Info, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || !strings.HasPrefix(id, filePrefix) {
		return nil, nil, ErrNotFound
	}
	path := filepath.Join(m.cfg.Dir, id+fileExtension)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, ErrNotFound
	}
	return m.loadFile(path)
}

func (m *Manager) loadFile(path string) ([]domain.Candidate, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+checksumSize {
		return nil, nil, ErrChecksumMismatch
	}

	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))
	hdr, hdrJSON, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	var dataLenBuf [4]byte
	if _, err := io.ReadFull(br, dataLenBuf[:]); err != nil {
		return nil, nil, err
	}
	data := make([]byte, binary.BigEndian.Uint32(dataLenBuf[:]))
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, nil, err
	}

	if hdr.Encrypted {
		if len(m.cfg.Passphrase) == 0 {
			return nil, nil, ErrPassphraseMissing
		}
		seal, err := newSealer(m.cfg.Passphrase, hdr.Salt)
		if err != nil {
			return nil, nil, err
		}
		if data, err = seal.open(data, hdrJSON); err != nil {
			return nil, nil, err
		}
	}

	var decoded []archiveRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal records: %w", err)
	}
	cands := make([]domain.Candidate, 0, len(decoded))
	for i, r := range decoded {
		cands = append(cands, r.toCandidate(i+1))
	}

	info := &Info{
		ID:          strings.TrimSuffix(filepath.Base(path), fileExtension),
		RecordCount: hdr.RecordCount,
		CreatedAt:   hdr.CreatedAt,
		TakenAt:     hdr.TakenAt,
		Size:        stat.Size(),
		Path:        path,
		Checksum:    hex.EncodeToString(expected),
		Encrypted:   hdr.Encrypted,
	}
	return cands, info, nil
}

func readHeader(r io.Reader) (*archiveHeader, []byte, error) {
	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, ErrInvalidMagic
	}

	var hdrLenBuf [4]byte
	if _, err := io.ReadFull(r, hdrLenBuf[:]); err != nil {
		return nil, nil, err
	}
	hdrLen := binary.BigEndian.Uint32(hdrLenBuf[:])
	if hdrLen == 0 || hdrLen > 1<<20 {
		return nil, nil, fmt.Errorf("snapshot: bad header length %d", hdrLen)
	}
	hdrJSON := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, hdrJSON); err != nil {
		return nil, nil, err
	}

	var hdr archiveHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}
	return &hdr, hdrJSON, nil
}

// List lists archives oldest first. Header fields are filled in when the
// header is readable; the checksum is not verified.
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)

	var infos []*Info
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		info := &Info{
			ID:   strings.TrimSuffix(filepath.Base(p), fileExtension),
			Path: p,
			Size: stat.Size(),
		}
		if hdr, err := peekHeader(p); err == nil {
			info.RecordCount = hdr.RecordCount
			info.CreatedAt = hdr.CreatedAt
			info.TakenAt = hdr.TakenAt
			info.Encrypted = hdr.Encrypted
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func peekHeader(path string) (*archiveHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, _, err := readHeader(bufio.NewReader(f))
	return hdr, err
}

// Prune applies the retention policy and deletes old archives.
func (m *Manager) Prune() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) <= 1 {
		return nil
	}

	keep := make(map[string]struct{}, len(infos))

	// Keep last RetentionCount.
	if m.cfg.RetentionCount > 0 {
		start := len(infos) - m.cfg.RetentionCount
		if start < 0 {
			start = 0
		}
		for _, info := range infos[start:] {
			keep[info.Path] = struct{}{}
		}
	}

	// Keep those within RetentionDays based on mtime.
	if m.cfg.RetentionDays > 0 {
		cutoff := m.cfg.Now().Add(-time.Duration(m.cfg.RetentionDays) * 24 * time.Hour)
		for _, info := range infos {
			st, err := os.Stat(info.Path)
			if err != nil {
				continue
			}
			if st.ModTime().After(cutoff) {
				keep[info.Path] = struct{}{}
			}
		}
	}

	// Always keep at least the newest.
	keep[infos[len(infos)-1].Path] = struct{}{}

	for _, info := range infos {
		if _, ok := keep[info.Path]; ok {
			continue
		}
		_ = os.Remove(info.Path)
	}
	return nil
}

func (m *Manager) generateID(t time.Time) string {
	ts := t.Format("20060102150405")
	prefix := filePrefix + ts + "-"

	last := 0
	entries, _ := os.ReadDir(m.cfg.Dir)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), fileExtension))
		if err == nil && seq > last {
			last = seq
		}
	}

	return fmt.Sprintf("%s%04d", prefix, last+1)
}
