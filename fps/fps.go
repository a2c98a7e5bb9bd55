package fps

import (
	"fmt"
	"os"
	"sync"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/internal/pool"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

// Parameters is the mutable, mutex-guarded state behind one open file:
// the raw-data buffer (or memory map), and, in mmap mode, a bitmap of
// which fixed-size blocks have already been faulted in (§4.4: "a
// block-bitmap tracks presence so pages are never re-read").
type Parameters struct {
	mu sync.Mutex

	fullFileRead bool
	raw          *pool.Buffer
	mapped       mmap.MMap
	blockSize    int
	blockPresent []bool
}

// FPS is one handle per open MED file (§4.4): filename, descriptor,
// directives, parameters, and the parsed UniversalHeader view. Typed
// views into the body (metadata, record indices/data, time-series
// indices/data, video indices) are obtained on demand from package
// layout rather than overlaid in place, since Go has no anonymous-union
// equivalent (§9 "expose either sum types ... or pairs of typed views
// over a common byte buffer").
type FPS struct {
	Filename   string
	Directives Directives
	Header     *layout.UniversalHeader

	file   *os.File
	params Parameters
	locked bool
}

// Open opens filename under directives, reading the universal header and
// (per Directives.ReadMode) the rest of the file. The caller must Close
// the returned FPS.
func Open(filename string, directives Directives, behavior medstate.Behavior) (*FPS, error) {
	flag := os.O_RDONLY
	switch directives.OpenMode {
	case OpenWrite:
		flag = os.O_RDWR | os.O_CREATE
	case OpenReadWrite:
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(filename, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("fps.Open %s: %w", filename, err)
	}

	handle := &FPS{Filename: filename, Directives: directives, file: f}

	if directives.LockMode == LockOnReadOpen || directives.LockMode == LockOnWriteOpen {
		if err := handle.lock(); err != nil && !behavior.Has(medstate.SuppressWarning) {
			g, gerr := medstate.Get()
			if gerr == nil {
				g.Warn(behavior, "fps.Open", "advisory lock failed for %s: %v", filename, err)
			}
		}
	}

	switch directives.ReadMode {
	case ReadModeMmap:
		if err := handle.enableMmap(); err != nil {
			f.Close()
			return nil, err
		}
	case ReadModeFull:
		if err := handle.readFull(); err != nil {
			f.Close()
			return nil, err
		}
	default:
		if err := handle.readSliceInto(0, layout.UniversalHeaderSize); err != nil {
			f.Close()
			return nil, err
		}
	}

	header := &layout.UniversalHeader{}
	raw := handle.params.currentBytes()

	if len(raw) < layout.UniversalHeaderSize {
		f.Close()
		return nil, errs.ErrInvalidHeaderSize
	}

	if err := header.Parse(raw); err != nil {
		f.Close()
		return nil, err
	}

	if behavior.Has(medstate.CRCValidateOnInput) {
		if err := layout.VerifyHeaderCRC(raw); err != nil {
			f.Close()
			return nil, err
		}
	}

	handle.Header = header

	return handle, nil
}

// currentBytes returns whichever backing buffer is live: the mmap region
// or the read buffer.
func (p *Parameters) currentBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mapped != nil {
		return p.mapped
	}

	if p.raw != nil {
		return p.raw.Bytes()
	}

	return nil
}

// readFull reads the entire file into the raw-data buffer (§4.4 "full
// read": typical for small metadata/indices files).
func (h *FPS) readFull() error {
	info, err := h.file.Stat()
	if err != nil {
		return err
	}

	buf := pool.GetFPSBuffer()
	buf.SetLength(int(info.Size()))

	if _, err := h.file.ReadAt(buf.Bytes(), 0); err != nil {
		return fmt.Errorf("fps: full read %s: %w", h.Filename, err)
	}

	h.params.mu.Lock()
	h.params.raw = buf
	h.params.fullFileRead = true
	h.params.mu.Unlock()

	return nil
}

// readSliceInto reads exactly length bytes starting at offset into the
// raw-data buffer (§4.4 "slice read": only the byte range needed for a
// requested subset).
func (h *FPS) readSliceInto(offset int64, length int) error {
	buf := pool.GetFPSBuffer()
	buf.SetLength(length)

	if _, err := h.file.ReadAt(buf.Bytes(), offset); err != nil {
		return fmt.Errorf("fps: slice read %s at %d: %w", h.Filename, offset, err)
	}

	h.params.mu.Lock()
	h.params.raw = buf
	h.params.fullFileRead = false
	h.params.mu.Unlock()

	return nil
}

// ReadSlice reads length bytes at offset directly from disk, independent
// of whatever is currently cached in the FPS buffer; used for one-off
// random access (e.g. a single CMP block) without disturbing the header
// view already parsed at Open.
func (h *FPS) ReadSlice(offset int64, length int) ([]byte, error) {
	if h.params.mapped != nil {
		end := int(offset) + length
		if end > len(h.params.mapped) {
			return nil, errs.ErrTruncated
		}

		h.markMmapRange(offset, length)

		return h.params.mapped[offset:end], nil
	}

	b := make([]byte, length)
	if _, err := h.file.ReadAt(b, offset); err != nil {
		return nil, fmt.Errorf("fps: read %s at %d: %w", h.Filename, offset, err)
	}

	return b, nil
}

// enableMmap memory-maps the whole file and initializes the block
// presence bitmap (§4.4 "memory map": allocate full-file-sized buffer,
// bring in only blocks touched by reads).
func (h *FPS) enableMmap() error {
	m, err := mmap.Map(h.file, mapFlagFor(h.Directives.OpenMode), 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrMmapFailed, h.Filename, err)
	}

	g, err := medstate.Get()
	if err != nil {
		m.Unmap()
		return err
	}

	blockSize := g.MmapBlockSize
	if blockSize <= 0 {
		blockSize = medstate.DefaultMmapBlockSize
	}

	nBlocks := (len(m) + blockSize - 1) / blockSize

	h.params.mu.Lock()
	h.params.mapped = m
	h.params.blockSize = blockSize
	h.params.blockPresent = make([]bool, nBlocks)
	h.params.mu.Unlock()

	return nil
}

func mapFlagFor(mode OpenMode) mmap.Flag {
	if mode == OpenRead {
		return mmap.RDONLY
	}

	return mmap.RDWR
}

// markMmapRange records that the blocks covering [offset, offset+length)
// have now been touched, matching the presence-bitmap bookkeeping §4.4
// describes (the actual page fault-in is handled by the OS; this bitmap
// exists so a higher layer can tell whether a given span has already
// been visited without re-touching every byte).
func (h *FPS) markMmapRange(offset int64, length int) {
	h.params.mu.Lock()
	defer h.params.mu.Unlock()

	if h.params.blockSize == 0 {
		return
	}

	first := int(offset) / h.params.blockSize
	last := (int(offset) + length - 1) / h.params.blockSize

	for b := first; b <= last && b < len(h.params.blockPresent); b++ {
		h.params.blockPresent[b] = true
	}
}

// BlocksTouched reports how many mmap blocks have been faulted in so far
// (0 when not in mmap mode).
func (h *FPS) BlocksTouched() int {
	h.params.mu.Lock()
	defer h.params.mu.Unlock()

	n := 0
	for _, present := range h.params.blockPresent {
		if present {
			n++
		}
	}

	return n
}

// Write writes data at offset, used by the encode-side callers (CMP
// block append, record append, metadata/header flush).
func (h *FPS) Write(offset int64, data []byte) error {
	if h.Directives.OpenMode == OpenRead {
		return fmt.Errorf("fps: %s opened read-only", h.Filename)
	}

	if _, err := h.file.WriteAt(data, offset); err != nil {
		return fmt.Errorf("fps: write %s at %d: %w", h.Filename, offset, err)
	}

	if h.Directives.FlushAfterWrite {
		return h.file.Sync()
	}

	return nil
}

// Size returns the current on-disk file size.
func (h *FPS) Size() (int64, error) {
	info, err := h.file.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Close releases the file handle, unmapping and unlocking as needed
// (§5 "Cancellation": callers abort by closing the FPS, which releases
// file handles, unlocks advisory locks, and frees the raw-data buffer").
func (h *FPS) Close() error {
	if h.locked {
		_ = h.unlock()
	}

	h.params.mu.Lock()
	if h.params.mapped != nil {
		_ = h.params.mapped.Unmap()
		h.params.mapped = nil
	}

	if h.params.raw != nil {
		pool.PutFPSBuffer(h.params.raw)
		h.params.raw = nil
	}
	h.params.mu.Unlock()

	return h.file.Close()
}
