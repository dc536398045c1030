package services

import (
	"netflix-dashboard/models"
	"netflix-dashboard/storage"
)

func newTestTitle(typ models.TitleType, country, dateAdded, listedIn, rating string, releaseYear int) *models.Title {
	return &models.Title{
		Type:         typ,
		Country:      country,
		DateAddedRaw: dateAdded,
		ListedIn:     storage.SplitLabels(listedIn),
		Rating:       rating,
		ReleaseYear:  releaseYear,
	}
}

// scenarioTable is the two-title catalogue used throughout the tests.
func scenarioTable() models.Table {
	return Enrich(models.Table{
		newTestTitle(models.Movie, "US", "January 5, 2018", "Drama,Action", "PG", 2017),
		newTestTitle(models.TVShow, "US", "June 1, 2020", "Comedy", "TV-MA", 2019),
	})
}

func sampleTable() models.Table {
	return Enrich(models.Table{
		newTestTitle(models.Movie, "United States", "September 25, 2021", "Documentaries", "PG-13", 2020),
		newTestTitle(models.TVShow, "South Africa", "September 24, 2021", "International TV Shows, TV Dramas", "TV-MA", 2021),
		newTestTitle(models.TVShow, "", "September 24, 2021", "Crime TV Shows", "TV-MA", 2021),
		newTestTitle(models.Movie, "India", "March 1, 2019", "Dramas, International Movies", "TV-14", 2019),
		newTestTitle(models.Movie, "India", "", "Comedies", "", 2018),
		newTestTitle(models.Movie, "United States", "July 4, 2016", "Dramas", "R", 2015),
		newTestTitle("", "Japan", "not a date", "", "TV-14", 2010),
		newTestTitle(models.Movie, "Japan", "2017-02-01", "Anime Features", "TV-PG", 2010),
	})
}
