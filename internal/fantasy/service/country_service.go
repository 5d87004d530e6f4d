package service

import (
	"context"

	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/repository"
	pkgrepo "fantasy/pkg/repository"
)

// CountryService forwards country operations to the repository and maps
// its failures to error codes.
type CountryService struct {
	repo repository.CountryRepository
}

// NewCountryService creates a new CountryService.
func NewCountryService(repo repository.CountryRepository) *CountryService {
	return &CountryService{repo: repo}
}

func (s *CountryService) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	country, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return country, nil
}

func (s *CountryService) GetAll(ctx context.Context) ([]*model.Country, error) {
	countries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return countries, nil
}

func (s *CountryService) GetPaginated(ctx context.Context, pagination pkgrepo.Pagination) ([]*model.Country, error) {
	pagination.Normalize()
	countries, err := s.repo.GetPaginated(ctx, pagination)
	if err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return countries, nil
}

func (s *CountryService) GetTotalRecords(ctx context.Context, pagination pkgrepo.Pagination) (int64, error) {
	pagination.Normalize()
	total, err := s.repo.GetTotalRecords(ctx, pagination)
	if err != nil {
		return 0, mapRepoError(err, countryCodes)
	}
	return total, nil
}

func (s *CountryService) GetCombo(ctx context.Context) ([]model.CountryCombo, error) {
	combo, err := s.repo.GetCombo(ctx)
	if err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return combo, nil
}

// Create inserts a country; duplicate names fail with CountryAlreadyExists.
func (s *CountryService) Create(ctx context.Context, country *model.Country) (*model.Country, error) {
	name, err := validateName(country.Name)
	if err != nil {
		return nil, err
	}
	created := &model.Country{Name: name}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return created, nil
}

// Update renames a country.
func (s *CountryService) Update(ctx context.Context, country *model.Country) (*model.Country, error) {
	if err := validateID(country.ID); err != nil {
		return nil, err
	}
	name, err := validateName(country.Name)
	if err != nil {
		return nil, err
	}
	updated := &model.Country{ID: country.ID, Name: name}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, mapRepoError(err, countryCodes)
	}
	return updated, nil
}

// Delete removes a country; countries that still own teams fail with CountryInUse.
func (s *CountryService) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return mapRepoError(s.repo.Delete(ctx, id), countryCodes)
}
