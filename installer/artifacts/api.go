/*
Package artifacts locates the build outputs which are installed onto the
target disk, and fetches them from a TFTP server.

Each kind of artifact has an ordered list of candidate locations relative to
the build root. The staging directory, which receives fetched artifacts, is
searched before the candidates. The first existing path wins.
*/
package artifacts

import (
	"io"

	"github.com/redox-os-tools/disk-installer/lib/log"
)

const (
	KindBootloader = iota
	KindKernel
	KindInitfs
)

type Kind uint

// Candidates lists, per Kind, the locations searched relative to the build
// root.
type Candidates struct {
	Bootloader []string `yaml:"bootloader,omitempty"`
	Kernel     []string `yaml:"kernel,omitempty"`
	Initfs     []string `yaml:"initfs,omitempty"`
}

// Receiver downloads a file. It is implemented by *tftp.Client.
type Receiver interface {
	Receive(filename string, mode string) (io.WriterTo, error)
}

type Resolver struct {
	buildRoot  string
	candidates Candidates
	stagingDir string
}

// DefaultCandidates returns the locations where the Redox build system leaves
// its outputs.
func DefaultCandidates() Candidates {
	return defaultCandidates()
}

// Fetch downloads the artifacts from the TFTP server on hostname into
// stagingDir. The bootloader and kernel are required, the initfs is
// optional. The names of the files written are returned.
func Fetch(hostname, stagingDir string, logger log.DebugLogger) (
	[]string, error) {
	return fetch(hostname, stagingDir, logger)
}

// FetchWithReceiver is similar to Fetch except that the files are downloaded
// using receiver.
func FetchWithReceiver(receiver Receiver, stagingDir string,
	logger log.DebugLogger) ([]string, error) {
	return fetchWithReceiver(receiver, stagingDir, logger)
}

// StagingName returns the file name of kind in the staging directory and on
// the TFTP server.
func StagingName(kind Kind) string {
	return stagingNames[kind]
}

// NewResolver creates a Resolver. Empty candidate lists are replaced with the
// defaults.
func NewResolver(buildRoot, stagingDir string,
	candidates Candidates) *Resolver {
	return newResolver(buildRoot, stagingDir, candidates)
}

// Resolve returns the first existing location for kind. If none exists an
// error listing every searched location is returned.
func (r *Resolver) Resolve(kind Kind) (string, error) {
	return r.resolve(kind)
}

// Searched returns the locations searched for kind, in order.
func (r *Resolver) Searched(kind Kind) []string {
	return r.searched(kind)
}

func (kind Kind) String() string {
	return kind.string()
}
