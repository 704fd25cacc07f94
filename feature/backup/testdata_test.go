package backup_test

const keyedJSON = `{
  "anime": [
    {
      "status": "COMPLETED",
      "score": 8.5,
      "progress": 12,
      "notes": null,
      "customLists": ["Favourites", "Rewatch"],
      "repeat": 2,
      "media": {"id": 1, "type": "ANIME", "title": {"romaji": "Cowboy Bebop"}}
    },
    {
      "status": "PLANNING",
      "score": 0,
      "media": {"id": 5, "title": {"romaji": "Trigun"}}
    }
  ],
  "manga": [
    {
      "status": "CURRENT",
      "score": 0,
      "progress": 40,
      "progressVolumes": 4,
      "customLists": [{"name": "Print", "enabled": true}, {"name": "Digital", "enabled": false}],
      "media": {"id": 30002, "type": "MANGA", "title": {"romaji": "Berserk"}}
    }
  ]
}`

const flatJSON = `[
  {"status": "COMPLETED", "score": 9, "media": {"id": 1, "type": "ANIME"}},
  {"status": "CURRENT", "score": 0, "media": {"id": 30002, "type": "MANGA"}},
  {"status": "PAUSED", "score": 0, "media": {"id": 7}}
]`
