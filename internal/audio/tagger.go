package audio

import (
	"net/http"
	"os"

	"github.com/bogem/id3v2"
)

// Tags is the ID3 metadata written to a finished mashup.
type Tags struct {
	// Title goes to TIT2.
	Title string

	// Artist goes to TPE1 and TPE2.
	Artist string

	// Album goes to TALB.
	Album string

	// Year goes to TYER when non-empty.
	Year string

	// Comment goes to a COMM frame when non-empty.
	Comment string

	// Artwork is an image embedded as the front cover. Nil skips it.
	Artwork []byte
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.SaveTags("/tmp/mashup.mp3", Tags{
//	    Title:  "mashup",
//	    Artist: "Artist X",
//	    Album:  "Mashup",
//	})
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SaveTags replaces the text frames and cover of the file at path.
//
// Empty text fields clear the corresponding frame.
func (t *Tagger) SaveTags(path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		// Unparseable existing tag: start over with an empty one.
		tag, err = id3v2.Open(path, id3v2.Options{Parse: false})
		if err != nil {
			return err
		}
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.SetGenre("")

	tag.DeleteFrames("TPE2")
	if tags.Artist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, tags.Artist)
	}

	tag.DeleteFrames("TYER")
	if tags.Year != "" {
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, tags.Year)
	}

	tag.DeleteFrames(tag.CommonID("Comments"))
	if tags.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        tags.Comment,
		})
	}

	if tags.Artwork != nil {
		t.updateArtwork(tag, tags.Artwork)
	}

	return tag.Save()
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    http.DetectContentType(artwork),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
