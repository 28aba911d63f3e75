// Package utils holds small display helpers shared by the views.
package utils

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// EntryIcon returns the icon shown in front of a listing entry.
func EntryIcon(name string, isDir, placeholder bool) string {
	switch {
	case placeholder:
		return "⚠️"
	case isDir:
		return "📁"
	default:
		return GetFileIcon(name)
	}
}

// GetFileIcon returns an emoji icon for a file based on its extension
func GetFileIcon(name string) string {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".go":
		return "🐹"
	case ".js", ".ts", ".jsx", ".tsx":
		return "📜"
	case ".py":
		return "🐍"
	case ".rb":
		return "💎"
	case ".java":
		return "☕"
	case ".rs":
		return "🦀"
	case ".cpp", ".c", ".h":
		return "⚙️"
	case ".html", ".htm":
		return "🌐"
	case ".css", ".scss", ".sass":
		return "🎨"
	case ".json", ".yaml", ".yml", ".toml":
		return "📋"
	case ".md", ".markdown":
		return "📝"
	case ".txt", ".log":
		return "📄"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico":
		return "🖼️"
	case ".mp4", ".avi", ".mov", ".mkv":
		return "🎬"
	case ".mp3", ".wav", ".flac", ".ogg":
		return "🎵"
	case ".zip", ".tar", ".gz", ".rar", ".7z":
		return "📦"
	case ".pdf":
		return "📕"
	case ".doc", ".docx":
		return "📘"
	case ".xls", ".xlsx":
		return "📊"
	case ".sh", ".bash", ".zsh":
		return "🖥️"
	case ".git", ".gitignore":
		return "🔀"
	default:
		return "📄"
	}
}

// FormatFileSize formats a file size in bytes to a human-readable string
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// FormatFileSizeColored returns a color-styled file size string based on size ranges
func FormatFileSizeColored(size int64) string {
	sizeStr := FormatFileSize(size)

	const (
		KB    = 1024
		MB    = 1024 * KB
		MB100 = 100 * MB
	)

	var style lipgloss.Style
	switch {
	case size < KB:
		// < 1 KB: dim gray for tiny files
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	case size < MB:
		// 1 KB - 1 MB: normal color for typical files
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	case size < MB100:
		// 1 MB - 100 MB: yellow/orange for large files
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	default:
		// > 100 MB: red bold for very large files
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}

	return style.Render(sizeStr)
}

// CommandExists checks if a command is available in PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Truncate shortens s to at most width cells, marking the cut with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
