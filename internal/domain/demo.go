package domain

import "time"

// DemoLocations is the seed set used when no location data exists yet.
func DemoLocations() []Location {
	return []Location{
		{ID: "1", Name: "Maktab №45", Type: TypeSchool, Address: "Bunyodkor ko'chasi, 15", Lat: 41.3111, Lon: 69.2797, Rating: 4.5, ReviewCount: 23},
		{ID: "2", Name: "Shifoxona №3", Type: TypeClinic, Address: "Olmazor ko'chasi, 8", Lat: 41.3150, Lon: 69.2834, Rating: 4.2, ReviewCount: 18},
		{ID: "3", Name: "Bogcha 'Bahor'", Type: TypeKindergarten, Address: "Chilanzar ko'chasi, 22", Lat: 41.3089, Lon: 69.2765, Rating: 4.8, ReviewCount: 31},
	}
}

// DemoAnnouncements is shown when nothing has been posted yet.
func DemoAnnouncements(now time.Time) []Announcement {
	return []Announcement{
		{ID: "demo-1", Title: "Yangi maktab ochildi", Content: "Bunyodkor tumanida 3-sonli maktab binosi qurilmoqda", Type: AnnouncementSuccess, AuthorName: "Admin", CreatedAt: now, Demo: true},
		{ID: "demo-2", Title: "Yo'l ta'mirlanmoqda", Content: "Olmazor ko'chasidagi yo'l ta'miri boshlandi", Type: AnnouncementWarning, AuthorName: "Admin", CreatedAt: now, Demo: true},
	}
}
