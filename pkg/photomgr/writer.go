package photomgr

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image/jpeg"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
)

type Manager struct {
	dir string
}

func New(dir string) *Manager {
	return &Manager{dir: dir}
}

func (m *Manager) userDir(user uint64) (string, error) {
	path := m.dir + "/" + strconv.FormatUint(user, 10)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0777); err != nil {
			return "", err
		}
	}

	return path, nil
}

func (m *Manager) write(data []byte, user uint64, name string, maxSide uint) (string, error) {
	jimg, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	log.Println("got img", name, jimg.Bounds().Size())

	scaled := resize.Thumbnail(maxSide, maxSide, jimg, resize.Lanczos3)

	buf := bytes.Buffer{}
	if err = jpeg.Encode(&buf, scaled, nil); err != nil {
		return "", err
	}

	path, err := m.userDir(user)
	if err != nil {
		return "", err
	}

	if err = ioutil.WriteFile(path+"/"+name+".jpg", buf.Bytes(), 0666); err != nil {
		return "", err
	}

	return name + ".jpg", nil
}

// SaveAvatar stores a profile image under a fixed slot index.
func (m *Manager) SaveAvatar(data []byte, user uint64, slot int) error {
	_, err := m.write(data, user, strconv.Itoa(slot), 256)
	return err
}

// SavePhoto stores a relayed photo under a content-derived name and
// returns it, so the same payload is not written twice.
func (m *Manager) SavePhoto(data []byte, user uint64) (string, error) {
	sum := sha256.Sum256(data)
	return m.write(data, user, hex.EncodeToString(sum[:8]), 1280)
}

func (m *Manager) GetImage(user uint64, name string) ([]byte, error) {
	path := m.dir + "/" + strconv.FormatUint(user, 10)

	return ioutil.ReadFile(path + "/" + name)
}

func (m *Manager) ListImages(user uint64) ([]string, error) {
	path := m.dir + "/" + strconv.FormatUint(user, 10)

	files, err := ioutil.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, err
	}

	imgs := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".jpg") {
			imgs = append(imgs, f.Name())
		}
	}

	return imgs, nil
}
