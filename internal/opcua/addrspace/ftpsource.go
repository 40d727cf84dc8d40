package addrspace

import (
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPSource names an alternate NodeSet file an FTP server hosts, for
// devices that receive their node set from a provisioning server instead
// of reading a local file.
type FTPSource struct {
	Addr     string // host:port
	Username string
	Password string
	Path     string // remote file path
	Timeout  time.Duration
}

// LoadNodeSetFromFTP retrieves src.Path from the FTP server and parses it
// with LoadNodeSet, the same streaming loader used for local files.
func LoadNodeSetFromFTP(src FTPSource, opts ...Option) (*AddressSpace, error) {
	r, err := openFTPReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return LoadNodeSet(r, opts...)
}

// openFTPReader dials, authenticates and opens src.Path for reading,
// returning a ReadCloser that also closes the underlying FTP connection.
func openFTPReader(src FTPSource) (io.ReadCloser, error) {
	timeout := src.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	conn, err := ftp.Dial(src.Addr, ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("addrspace: ftp dial %s: %w", src.Addr, err)
	}
	if err := conn.Login(src.Username, src.Password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("addrspace: ftp login: %w", err)
	}

	resp, err := conn.Retr(src.Path)
	if err != nil {
		conn.Quit()
		return nil, fmt.Errorf("addrspace: ftp retr %s: %w", src.Path, err)
	}
	return &ftpReadCloser{resp: resp, conn: conn}, nil
}

// ftpReadCloser closes both the file response and the control connection,
// since ftp.Response.Close doesn't log out.
type ftpReadCloser struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (r *ftpReadCloser) Read(p []byte) (int, error) { return r.resp.Read(p) }

func (r *ftpReadCloser) Close() error {
	err := r.resp.Close()
	r.conn.Quit()
	return err
}
