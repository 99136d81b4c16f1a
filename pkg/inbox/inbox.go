// Package inbox implements the encrypted file-drop channel shared with the
// operator's controller.
//
// The channel is a directory holding two base64 ciphertext files: inbox.enc,
// written by the operator and read here, and outbox.enc, written here for the
// operator to collect. Both sides share the same 32-byte key, so either end
// can decrypt the other's file.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/cipher"
)

const (
	// InboxFile is the ciphertext file the operator writes and the service reads.
	InboxFile = "inbox.enc"

	// OutboxFile is the ciphertext file the service writes for the operator.
	OutboxFile = "outbox.enc"

	// NoMessage is returned by Read when no operator message is waiting.
	NoMessage = "No message from operator."

	// NoReply is returned by Collect when no service reply is waiting.
	NoReply = "No message from hindsight."
)

// ErrEmptyMessage is returned by Send when the outgoing message is empty.
var ErrEmptyMessage = errors.New("empty message")

// Inbox reads and writes the encrypted operator channel under one directory.
type Inbox struct {
	dir    string
	cipher *cipher.Cipher
	logger *zap.Logger
}

// New creates an Inbox over the given directory.
func New(dir string, c *cipher.Cipher, logger *zap.Logger) *Inbox {
	return &Inbox{
		dir:    dir,
		cipher: c,
		logger: logger,
	}
}

// Read returns the decrypted operator message. A missing or empty inbox file
// yields NoMessage rather than an error.
func (i *Inbox) Read() (string, error) {
	return i.decryptFile(InboxFile, NoMessage)
}

// Collect returns the decrypted service reply from the outbox. This is the
// operator side of the channel; a missing or empty outbox yields NoReply.
func (i *Inbox) Collect() (string, error) {
	return i.decryptFile(OutboxFile, NoReply)
}

// Send encrypts the message and writes it to the outbox file, creating the
// channel directory if needed.
func (i *Inbox) Send(message string) error {
	return i.encryptFile(OutboxFile, message)
}

// Drop encrypts an operator message and writes it to the inbox file for the
// service to read.
func (i *Inbox) Drop(message string) error {
	return i.encryptFile(InboxFile, message)
}

func (i *Inbox) decryptFile(name, empty string) (string, error) {
	data, err := os.ReadFile(filepath.Join(i.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	encrypted := strings.TrimSpace(string(data))
	if encrypted == "" {
		return empty, nil
	}

	plaintext, err := i.cipher.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypting %s: %w", name, err)
	}

	i.logger.Info("read channel file",
		zap.String("file", name),
		zap.Int("chars", len(plaintext)),
	)
	return plaintext, nil
}

func (i *Inbox) encryptFile(name, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("creating inbox dir: %w", err)
	}

	encrypted := i.cipher.Encrypt(message)
	if err := os.WriteFile(filepath.Join(i.dir, name), []byte(encrypted), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	i.logger.Info("wrote channel file",
		zap.String("file", name),
		zap.Int("chars", len(message)),
		zap.Int("encrypted_chars", len(encrypted)),
	)
	return nil
}

// Watch tails the inbox file and delivers each new decrypted operator
// message on the returned channel until the context is cancelled.
// Consecutive duplicate deliveries (an editor writing the same content
// twice) are collapsed.
func (i *Inbox) Watch(ctx context.Context) (<-chan string, error) {
	return i.watch(ctx, InboxFile, NoMessage, i.Read)
}

// WatchOutbox tails the outbox file from the operator side, delivering each
// new decrypted service reply.
func (i *Inbox) WatchOutbox(ctx context.Context) (<-chan string, error) {
	return i.watch(ctx, OutboxFile, NoReply, i.Collect)
}

func (i *Inbox) watch(ctx context.Context, name, empty string, read func() (string, error)) (<-chan string, error) {
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating inbox dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating inbox watcher: %w", err)
	}

	if err := watcher.Add(i.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching inbox dir: %w", err)
	}

	path := filepath.Join(i.dir, name)
	out := make(chan string)

	go func() {
		defer close(out)
		defer watcher.Close()

		var last string
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				message, err := read()
				if err != nil {
					i.logger.Warn("inbox watch read failed", zap.Error(err))
					continue
				}
				if message == empty || message == last {
					continue
				}
				last = message

				select {
				case out <- message:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				i.logger.Warn("inbox watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}
