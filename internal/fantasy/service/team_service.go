package service

import (
	"context"
	"encoding/base64"
	"strings"

	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/repository"
	pkgerrors "fantasy/pkg/errors"
	pkgrepo "fantasy/pkg/repository"
	"fantasy/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	// TeamImageContainer is the blob container holding team pictures.
	TeamImageContainer = "teams"
	teamImageExtension = ".jpg"
)

// TeamService orchestrates team reads and writes, including the image
// upload path of the full endpoints.
type TeamService struct {
	teams     repository.TeamRepository
	countries repository.CountryRepository
	blobs     storage.BlobStorage
}

// NewTeamService creates a new TeamService.
func NewTeamService(teams repository.TeamRepository, countries repository.CountryRepository, blobs storage.BlobStorage) *TeamService {
	return &TeamService{teams: teams, countries: countries, blobs: blobs}
}

func (s *TeamService) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return team, nil
}

func (s *TeamService) GetAll(ctx context.Context) ([]*model.Team, error) {
	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return teams, nil
}

func (s *TeamService) GetPaginated(ctx context.Context, pagination pkgrepo.Pagination) ([]*model.Team, error) {
	pagination.Normalize()
	teams, err := s.teams.GetPaginated(ctx, pagination)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return teams, nil
}

func (s *TeamService) GetTotalRecords(ctx context.Context, pagination pkgrepo.Pagination) (int64, error) {
	pagination.Normalize()
	total, err := s.teams.GetTotalRecords(ctx, pagination)
	if err != nil {
		return 0, mapRepoError(err, teamCodes)
	}
	return total, nil
}

func (s *TeamService) GetCombo(ctx context.Context, countryID int64) ([]model.TeamCombo, error) {
	combo, err := s.teams.GetCombo(ctx, countryID)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return combo, nil
}

// Create inserts a team whose Image, if any, is already a stored locator.
func (s *TeamService) Create(ctx context.Context, team *model.Team) (*model.Team, error) {
	name, err := validateName(team.Name)
	if err != nil {
		return nil, err
	}
	created := &model.Team{
		Name:          name,
		Image:         team.Image,
		CountryID:     team.CountryID,
		IsImageSquare: team.IsImageSquare,
	}
	if err := s.teams.Create(ctx, created); err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return s.reload(ctx, created)
}

// Update replaces every column of a team.
func (s *TeamService) Update(ctx context.Context, team *model.Team) (*model.Team, error) {
	if err := validateID(team.ID); err != nil {
		return nil, err
	}
	name, err := validateName(team.Name)
	if err != nil {
		return nil, err
	}
	updated := &model.Team{
		ID:            team.ID,
		Name:          name,
		Image:         team.Image,
		CountryID:     team.CountryID,
		IsImageSquare: team.IsImageSquare,
	}
	if err := s.teams.Update(ctx, updated); err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return s.reload(ctx, updated)
}

// AddFull creates a team from a DTO: the country must exist and a base64
// image, when present, is stored before the row is written.
func (s *TeamService) AddFull(ctx context.Context, dto model.TeamDTO) (*model.Team, error) {
	name, err := validateName(dto.Name)
	if err != nil {
		return nil, err
	}
	if err := s.requireCountry(ctx, dto.CountryID); err != nil {
		return nil, err
	}

	team := &model.Team{
		Name:          name,
		CountryID:     dto.CountryID,
		IsImageSquare: dto.IsImageSquare,
	}
	newImage := ""
	if dto.Image != "" {
		content, err := decodeImage(dto.Image)
		if err != nil {
			return nil, err
		}
		newImage, err = s.saveImage(ctx, content)
		if err != nil {
			return nil, err
		}
		team.Image = newImage
	}

	if err := s.teams.Create(ctx, team); err != nil {
		s.discardImage(ctx, newImage)
		return nil, mapRepoError(err, teamCodes)
	}
	return s.reload(ctx, team)
}

// UpdateFull updates a team from a DTO. An empty image keeps the stored one.
// A new image is stored first and the previous blob is removed only after
// the row is updated, so a failed update leaves the team's image intact.
func (s *TeamService) UpdateFull(ctx context.Context, dto model.TeamDTO) (*model.Team, error) {
	if err := validateID(dto.ID); err != nil {
		return nil, err
	}
	name, err := validateName(dto.Name)
	if err != nil {
		return nil, err
	}
	if err := s.requireCountry(ctx, dto.CountryID); err != nil {
		return nil, err
	}
	current, err := s.teams.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}

	team := &model.Team{
		ID:            current.ID,
		Name:          name,
		Image:         current.Image,
		CountryID:     dto.CountryID,
		IsImageSquare: dto.IsImageSquare,
	}
	newImage := ""
	if dto.Image != "" {
		content, err := decodeImage(dto.Image)
		if err != nil {
			return nil, err
		}
		newImage, err = s.saveImage(ctx, content)
		if err != nil {
			return nil, err
		}
		team.Image = newImage
	}

	if err := s.teams.Update(ctx, team); err != nil {
		s.discardImage(ctx, newImage)
		return nil, mapRepoError(err, teamCodes)
	}
	if newImage != "" && current.Image != newImage {
		s.discardImage(ctx, current.Image)
	}
	return s.reload(ctx, team)
}

// Delete removes a team and, best effort, its image.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, teamCodes)
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return mapRepoError(err, teamCodes)
	}
	s.discardImage(ctx, team.Image)
	return nil
}

func (s *TeamService) requireCountry(ctx context.Context, countryID int64) error {
	if countryID <= 0 {
		return pkgerrors.New(pkgerrors.TeamCountryNotFound)
	}
	if _, err := s.countries.GetByID(ctx, countryID); err != nil {
		return mapRepoError(err, entityCodes{
			notFound:   pkgerrors.TeamCountryNotFound,
			duplicate:  pkgerrors.DatabaseError,
			referenced: pkgerrors.DatabaseError,
			foreignKey: pkgerrors.DatabaseError,
		})
	}
	return nil
}

func (s *TeamService) saveImage(ctx context.Context, content []byte) (string, error) {
	if s.blobs == nil {
		return "", pkgerrors.New(pkgerrors.ImageStorageFailed).WithMessage("image storage is not configured")
	}
	locator, err := s.blobs.SaveFile(ctx, content, teamImageExtension, TeamImageContainer)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.ImageStorageFailed)
	}
	return locator, nil
}

func (s *TeamService) discardImage(ctx context.Context, locator string) {
	if locator == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.RemoveFile(ctx, locator, TeamImageContainer); err != nil {
		logger.Warn(ctx, "remove team image failed", zap.String("image", locator), zap.Error(err))
	}
}

// reload returns the team with its country loaded.
func (s *TeamService) reload(ctx context.Context, team *model.Team) (*model.Team, error) {
	loaded, err := s.teams.GetByID(ctx, team.ID)
	if err != nil {
		return nil, mapRepoError(err, teamCodes)
	}
	return loaded, nil
}

// decodeImage accepts plain base64 or a data URL ("data:image/png;base64,...").
func decodeImage(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx != -1 {
			payload = payload[idx+1:]
		}
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(content) == 0 {
		return nil, pkgerrors.New(pkgerrors.TeamImageInvalid)
	}
	return content, nil
}
