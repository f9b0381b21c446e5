// Package ocr provides Optical Character Recognition (OCR) of enhanced
// whiteboard images using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Images are
// passed in memory; callers normally run the whiteboard pipeline first, since
// the cleaned, high-contrast result recognizes far better than the raw photo.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// # Error Handling
//
// ExtractTextFromImage returns errors for nil images, unsupported language
// codes and Tesseract failures. If bounding box extraction fails, the text is
// still returned with an empty Regions slice.
package ocr
