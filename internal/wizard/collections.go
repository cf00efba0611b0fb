package wizard

import (
	"fmt"
	"math"
	"strings"

	"studio/internal/model"

	"github.com/google/uuid"
)

// AddTag appends a tag. Blank and duplicate tags, and tags beyond
// model.MaxTags, are ignored.
func (c *Controller) AddTag(tag string) error {
	tag = strings.TrimSpace(tag)
	return c.mutate(func(d *model.Draft) error {
		if tag == "" || len(d.Tags) >= model.MaxTags {
			return nil
		}
		for _, t := range d.Tags {
			if strings.EqualFold(t, tag) {
				return nil
			}
		}
		d.Tags = append(d.Tags, tag)
		return nil
	})
}

// RemoveTag drops a tag, matching case-insensitively like AddTag.
func (c *Controller) RemoveTag(tag string) error {
	tag = strings.TrimSpace(tag)
	return c.mutate(func(d *model.Draft) error {
		kept := d.Tags[:0]
		for _, t := range d.Tags {
			if !strings.EqualFold(t, tag) {
				kept = append(kept, t)
			}
		}
		d.Tags = kept
		return nil
	})
}

// LectureInput describes a new lecture. Type defaults to video.
type LectureInput struct {
	Title           string
	Description     string
	Type            model.LectureType
	DurationMinutes int
	IsFreePreview   bool
}

// LecturePatch updates selected lecture fields.
type LecturePatch struct {
	Title           *string
	Description     *string
	Type            *model.LectureType
	DurationMinutes *int
	IsFreePreview   *bool
}

func (c *Controller) AddLecture(in LectureInput) (model.Lecture, error) {
	if in.Type == "" {
		in.Type = model.LectureTypeVideo
	}
	if !in.Type.Valid() {
		return model.Lecture{}, fmt.Errorf("%w: %q", ErrInvalidLectureType, in.Type)
	}
	var added model.Lecture
	err := c.mutate(func(d *model.Draft) error {
		d.Lectures = append(d.Lectures, model.Lecture{
			ID:              uuid.NewString(),
			Title:           strings.TrimSpace(in.Title),
			Description:     in.Description,
			Type:            in.Type,
			DurationMinutes: in.DurationMinutes,
			IsFreePreview:   in.IsFreePreview,
		})
		d.RenumberLectures()
		added = d.Lectures[len(d.Lectures)-1]
		return nil
	})
	return added, err
}

// UpdateLecture applies p to the lecture. Changing the type away from video
// detaches its video.
func (c *Controller) UpdateLecture(id string, p LecturePatch) (model.Lecture, error) {
	if p.Type != nil && !p.Type.Valid() {
		return model.Lecture{}, fmt.Errorf("%w: %q", ErrInvalidLectureType, *p.Type)
	}
	var updated model.Lecture
	err := c.mutate(func(d *model.Draft) error {
		i := d.LectureIndex(id)
		if i < 0 {
			return ErrLectureNotFound
		}
		l := &d.Lectures[i]
		if p.Title != nil {
			l.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			l.Description = *p.Description
		}
		if p.Type != nil {
			l.Type = *p.Type
			if l.Type != model.LectureTypeVideo {
				l.VideoID = ""
			}
		}
		if p.DurationMinutes != nil {
			l.DurationMinutes = *p.DurationMinutes
		}
		if p.IsFreePreview != nil {
			l.IsFreePreview = *p.IsFreePreview
		}
		updated = *l
		return nil
	})
	return updated, err
}

// checkLectures validates a replacement lecture list against d. Missing ids
// are generated and a blank type defaults to video.
func checkLectures(d *model.Draft, in []model.Lecture) ([]model.Lecture, error) {
	out := make([]model.Lecture, len(in))
	ids := make(map[string]bool, len(in))
	videos := make(map[string]bool)
	for i, l := range in {
		if l.Type == "" {
			l.Type = model.LectureTypeVideo
		}
		if !l.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLectureType, l.Type)
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if ids[l.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLecture, l.ID)
		}
		ids[l.ID] = true
		if l.VideoID != "" {
			if l.Type != model.LectureTypeVideo {
				return nil, ErrNotVideoLecture
			}
			if d.VideoIndex(l.VideoID) < 0 {
				return nil, fmt.Errorf("%w: %q", ErrVideoNotFound, l.VideoID)
			}
			if videos[l.VideoID] {
				return nil, fmt.Errorf("%w: %q", ErrVideoInUse, l.VideoID)
			}
			videos[l.VideoID] = true
		}
		l.Title = strings.TrimSpace(l.Title)
		l.Resources = withResourceIDs(l.Resources)
		out[i] = l
	}
	return out, nil
}

func withResourceIDs(in []model.Resource) []model.Resource {
	if in == nil {
		return nil
	}
	out := make([]model.Resource, len(in))
	for i, r := range in {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		out[i] = r
	}
	return out
}

func (c *Controller) RemoveLecture(id string) error {
	return c.mutate(func(d *model.Draft) error {
		i := d.LectureIndex(id)
		if i < 0 {
			return ErrLectureNotFound
		}
		d.Lectures = append(d.Lectures[:i], d.Lectures[i+1:]...)
		d.RenumberLectures()
		return nil
	})
}

// MoveLecture moves a lecture to the zero-based position to.
func (c *Controller) MoveLecture(id string, to int) error {
	return c.mutate(func(d *model.Draft) error {
		from := d.LectureIndex(id)
		if from < 0 {
			return ErrLectureNotFound
		}
		if to < 0 || to >= len(d.Lectures) {
			return ErrPositionOutOfRange
		}
		l := d.Lectures[from]
		d.Lectures = append(d.Lectures[:from], d.Lectures[from+1:]...)
		d.Lectures = append(d.Lectures[:to], append([]model.Lecture{l}, d.Lectures[to:]...)...)
		d.RenumberLectures()
		return nil
	})
}

// AddResource attaches r to the draft, or to a lecture when lectureID is set.
func (c *Controller) AddResource(lectureID string, r model.Resource) (model.Resource, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	err := c.mutate(func(d *model.Draft) error {
		if lectureID == "" {
			d.Resources = append(d.Resources, r)
			return nil
		}
		i := d.LectureIndex(lectureID)
		if i < 0 {
			return ErrLectureNotFound
		}
		d.Lectures[i].Resources = append(d.Lectures[i].Resources, r)
		return nil
	})
	return r, err
}

func (c *Controller) RemoveResource(id string) error {
	return c.mutate(func(d *model.Draft) error {
		return withResource(d, id, func(list *[]model.Resource, i int) {
			*list = append((*list)[:i], (*list)[i+1:]...)
		})
	})
}

func (c *Controller) SetResourceVisibility(id string, public bool) error {
	return c.mutate(func(d *model.Draft) error {
		return withResource(d, id, func(list *[]model.Resource, i int) {
			(*list)[i].IsPublic = public
		})
	})
}

func withResource(d *model.Draft, id string, fn func(list *[]model.Resource, i int)) error {
	for i := range d.Resources {
		if d.Resources[i].ID == id {
			fn(&d.Resources, i)
			return nil
		}
	}
	for li := range d.Lectures {
		for i := range d.Lectures[li].Resources {
			if d.Lectures[li].Resources[i].ID == id {
				fn(&d.Lectures[li].Resources, i)
				return nil
			}
		}
	}
	return ErrResourceNotFound
}

// AddVideo records an upload. A video with the same id is replaced.
func (c *Controller) AddVideo(v model.Video) error {
	if v.Status == "" {
		v.Status = model.VideoStatusProcessing
	}
	return c.mutate(func(d *model.Draft) error {
		if i := d.VideoIndex(v.ID); i >= 0 {
			d.Videos[i] = v
		} else {
			d.Videos = append(d.Videos, v)
		}
		fillDurations(d, v)
		return nil
	})
}

// UpdateVideo replaces a known video, typically with a new processing status.
func (c *Controller) UpdateVideo(v model.Video) error {
	return c.mutate(func(d *model.Draft) error {
		i := d.VideoIndex(v.ID)
		if i < 0 {
			return ErrVideoNotFound
		}
		d.Videos[i] = v
		fillDurations(d, v)
		return nil
	})
}

// Video returns the stored video with id.
func (c *Controller) Video(id string) (model.Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.draft.VideoIndex(id)
	if i < 0 {
		return model.Video{}, false
	}
	return c.draft.Videos[i], true
}

// AssignVideo attaches a video to a video lecture. A video belongs to at most
// one lecture, so any previous attachment is removed.
func (c *Controller) AssignVideo(lectureID, videoID string) error {
	return c.mutate(func(d *model.Draft) error {
		li := d.LectureIndex(lectureID)
		if li < 0 {
			return ErrLectureNotFound
		}
		if d.Lectures[li].Type != model.LectureTypeVideo {
			return ErrNotVideoLecture
		}
		vi := d.VideoIndex(videoID)
		if vi < 0 {
			return ErrVideoNotFound
		}
		for i := range d.Lectures {
			if d.Lectures[i].VideoID == videoID {
				d.Lectures[i].VideoID = ""
			}
		}
		d.Lectures[li].VideoID = videoID
		fillDurations(d, d.Videos[vi])
		return nil
	})
}

// fillDurations copies a ready video's length onto lectures that have none.
func fillDurations(d *model.Draft, v model.Video) {
	if v.Status != model.VideoStatusReady || v.Duration <= 0 {
		return
	}
	minutes := int(math.Ceil(v.Duration / 60))
	for i := range d.Lectures {
		if d.Lectures[i].VideoID == v.ID && d.Lectures[i].DurationMinutes == 0 {
			d.Lectures[i].DurationMinutes = minutes
		}
	}
}
